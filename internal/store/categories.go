package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pollhub-dev/pollhub/internal/models"
)

var ErrDuplicateCategory = errors.New("category already exists")

func (s *Store) ListCategories() ([]models.Category, error) {
	var categories []models.Category

	err := s.db.Order("name ASC").Find(&categories).Error

	return categories, err
}

func (s *Store) GetCategory(id uint) (*models.Category, error) {
	var category models.Category

	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &category, nil
}

func (s *Store) CreateCategory(name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)

	var existing models.Category

	err := s.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&existing).Error

	if err == nil {
		return nil, ErrDuplicateCategory
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := models.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}
