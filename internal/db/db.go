package db

import (
	"errors"
	"log"

	"hashbridge/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrNotConfigured = errors.New("DATABASE_URL not set")

// Open connects to Postgres and migrates the schema. An empty DSN is not
// fatal: the caller keeps serving and the affected endpoints answer with a
// configuration error instead.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, ErrNotConfigured
	}

	// TranslateError maps unique-index violations to gorm.ErrDuplicatedKey,
	// which the like toggle relies on.
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = conn.AutoMigrate(
		&models.Profile{},
		&models.Comment{},
		&models.Like{},
	)
	if err != nil {
		return nil, err
	}
	log.Println("Database migration completed")

	return conn, nil
}
