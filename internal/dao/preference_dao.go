package dao

import (
	"knoxshield/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceDAO interface {
	GetPreferences() (map[string]string, error)
	SetPreference(key, value string) error
}

type preferenceDAO struct {
	db *gorm.DB
}

func NewPreferenceDAO(db *gorm.DB) PreferenceDAO {
	return &preferenceDAO{db: db}
}

func (dao *preferenceDAO) GetPreferences() (map[string]string, error) {
	var prefs []models.Preference
	if err := dao.db.Find(&prefs).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}

func (dao *preferenceDAO) SetPreference(key, value string) error {
	pref := models.Preference{Key: key, Value: value}
	return dao.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
}
