package database

import (
	"fmt"

	"github.com/josiahuma/ovipoint/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB opens the database and migrates the schema. The composite
// unique index on (pickup_event_id, phone) backs the duplicate-phone
// invariant at the schema level; the allocator still checks it inside its
// transaction to return a typed error instead of a constraint violation.
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Organisation{}, &models.PickupEvent{}, &models.Booking{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return db, nil
}
