package repositories

import (
	"fmt"
	"sync"

	"pasar/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	items map[string]models.CartItem
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		items: make(map[string]models.CartItem),
	}
}

// GetByUser returns all cart items for a user.
func (r *MockCartRepository) GetByUser(userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			result = append(result, item)
		}
	}
	return result, nil
}

// GetByID returns a cart item by its ID, scoped to the owning user.
func (r *MockCartRepository) GetByID(id, userID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return nil, fmt.Errorf("%w: %s", models.ErrCartItemNotFound, id)
	}
	return &item, nil
}

// GetByUserAndListing returns the unique line for a (user, listing) pair.
func (r *MockCartRepository) GetByUserAndListing(userID, listingID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.ListingID == listingID {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("%w: listing %s", models.ErrCartItemNotFound, listingID)
}

// Create adds a new cart item.
func (r *MockCartRepository) Create(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = *item
	return nil
}

// Update modifies an existing cart item.
func (r *MockCartRepository) Update(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("%w: %s", models.ErrCartItemNotFound, item.ID)
	}
	r.items[item.ID] = *item
	return nil
}

// Delete removes a cart item, scoped to the owning user.
func (r *MockCartRepository) Delete(id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return fmt.Errorf("%w: %s", models.ErrCartItemNotFound, id)
	}
	delete(r.items, id)
	return nil
}

// ClearByUser removes every cart item belonging to a user.
func (r *MockCartRepository) ClearByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}
