package db

import (
	"trackit/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.PriceObservation{},
		&models.TrackingState{},
		&models.SystemSetting{},
	)
}
