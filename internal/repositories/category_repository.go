package repositories

import "pasar/internal/models"

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll(offset, limit int) ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id string) error
}
