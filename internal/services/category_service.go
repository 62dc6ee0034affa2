package services

import (
	"pasar/internal/models"
	"pasar/internal/repositories"
)

// CategoryService handles business logic for categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetCategories retrieves a page of categories.
func (s *CategoryService) GetCategories(offset, limit int) ([]models.Category, error) {
	return s.repo.GetAll(offset, limit)
}

// GetCategoryByID retrieves a single category.
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	return s.repo.GetByID(id)
}

// CreateCategory creates a new category. A parent reference, if present,
// must point at an existing category.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if category.ParentID != nil {
		if _, err := s.repo.GetByID(*category.ParentID); err != nil {
			return err
		}
	}
	return s.repo.Create(category)
}

// UpdateCategory updates name and description of an existing category.
func (s *CategoryService) UpdateCategory(id, name, description string) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	category.Description = description
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category by its ID.
func (s *CategoryService) DeleteCategory(id string) error {
	return s.repo.Delete(id)
}
