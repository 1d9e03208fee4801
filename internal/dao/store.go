package dao

import "gorm.io/gorm"

// NewGormStore returns DAOs backed by db.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Operations:  NewOperationDAO(db),
		Servers:     NewServerDAO(db),
		Preferences: NewPreferenceDAO(db),
	}
}
