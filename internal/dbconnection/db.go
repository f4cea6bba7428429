package dbconnection

import (
	"fmt"
	"log/slog"

	"github.com/amirhossein5/facestore/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens the SQLite database at path and migrates the schema.
func Open(path string, log *slog.Logger) (*gorm.DB, error) {
	log.Info("initializing database connection", "path", path)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.Face{})
	if err != nil {
		return fmt.Errorf("failed to migrate faces table: %w", err)
	}
	err = db.AutoMigrate(&models.Sighting{})
	if err != nil {
		return fmt.Errorf("failed to migrate sightings table: %w", err)
	}

	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
