package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ncls-p/notes-sub001/internal/models"
)

// Connect opens the PostgreSQL connection and runs migrations for the
// access-control schema. TranslateError maps driver unique-violation
// errors onto gorm.ErrDuplicatedKey so repositories can return their
// sentinel errors.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate applies the schema. Exported separately so tests can run it
// against their own database handle.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.Note{},
		&models.FolderShare{},
		&models.NoteShare{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
