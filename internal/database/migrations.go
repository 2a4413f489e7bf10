package database

import (
	"fmt"

	"github.com/yukikurage/vcc-collab-api/internal/logger"
	"github.com/yukikurage/vcc-collab-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the key-value table on db.
func Migrate(db *gorm.DB) error {
	logger.L().Info("Running database migrations...")
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.L().Info("Database migrations completed")
	return nil
}
