package database

import (
	"gorm.io/gorm"

	"peerlink_backend/internal/models"
)

// Migrate applies the schema for every model in scope.
func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 comes from the uuid-ossp extension.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Review{},
		&models.FavoriteReview{},
		&models.SocialAccount{},
	)
}
