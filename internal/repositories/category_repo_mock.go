package repositories

import (
	"fmt"
	"sort"
	"sync"

	"pasar/internal/models"

	"github.com/google/uuid"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	categories map[string]models.Category
	mu         sync.RWMutex
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[string]models.Category),
	}
}

// GetAll returns a page of categories ordered by name.
func (r *MockCategoryRepository) GetAll(offset, limit int) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

// GetByID returns a category by its ID.
func (r *MockCategoryRepository) GetByID(id string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrCategoryNotFound, id)
	}
	return &category, nil
}

// Create adds a new category.
func (r *MockCategoryRepository) Create(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	r.categories[category.ID] = *category
	return nil
}

// Update modifies an existing category.
func (r *MockCategoryRepository) Update(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; !ok {
		return fmt.Errorf("%w: %s", models.ErrCategoryNotFound, category.ID)
	}
	r.categories[category.ID] = *category
	return nil
}

// Delete removes a category by its ID.
func (r *MockCategoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrCategoryNotFound, id)
	}
	delete(r.categories, id)
	return nil
}
