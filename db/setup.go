package db

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pollhub-dev/pollhub/internal/models"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	return Migrate(DB)
}

// Migrate creates any missing tables. Split out from MigrateDatabase so
// tests can run it against their own connection.
func Migrate(db *gorm.DB) error {
	entities := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Poll{},
		&models.PollOption{},
		&models.Vote{},
	}

	migrator := db.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := db.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedCategories inserts the default categories on first boot. Existing
// names are left alone.
func SeedCategories(db *gorm.DB) error {
	defaults := []models.Category{
		{Name: "General", Description: "Anything that fits nowhere else"},
		{Name: "Technology", Description: "Software, hardware, and the internet"},
		{Name: "Sports", Description: "Teams, games, and matches"},
		{Name: "Entertainment", Description: "Film, music, and television"},
		{Name: "Food", Description: "Eating and drinking"},
	}

	for _, category := range defaults {
		var existing models.Category

		err := db.Where("name = ?", category.Name).First(&existing).Error

		if err == nil {
			continue
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := db.Create(&category).Error; err != nil {
			return err
		}
	}

	return nil
}
