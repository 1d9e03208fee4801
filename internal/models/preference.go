package models

const (
	PrefLanguage = "language"
	PrefTheme    = "theme"
)

type Preference struct {
	Key       string `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value     string `json:"value"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli" json:"updated_at"`
}

type Preferences struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
}
