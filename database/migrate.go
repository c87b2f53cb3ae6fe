package database

import (
	"talentlink_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех моделей.
// Порядок важен: родительские таблицы идут раньше зависимых.
func AutoMigrate(db *gorm.DB) error {
	// uuid_generate_v4() в default первичных ключей
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.RefreshToken{},
		&models.Job{},
		&models.Application{},
		&models.Contract{},
		&models.Milestone{},
		&models.Payment{},
		&models.Message{},
		&models.Notification{},
		&models.Review{},
	)
}
