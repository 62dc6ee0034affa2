package repositories

import (
	"fmt"
	"sync"

	"pasar/internal/models"

	"github.com/google/uuid"
)

// MockListingRepository is an in-memory implementation of ListingRepository.
// The mutex also serializes ReserveStock, giving it the same no-oversell
// guarantee the conditional UPDATE gives the GORM implementation.
type MockListingRepository struct {
	listings map[string]models.Listing
	mu       sync.RWMutex
}

// NewMockListingRepository creates a new instance of MockListingRepository.
func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{
		listings: make(map[string]models.Listing),
	}
}

// GetAll returns listings matching the filter.
func (r *MockListingRepository) GetAll(filter ListingFilter) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		if filter.CategoryID != "" && l.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		result = append(result, l)
	}
	return result, nil
}

// GetByID returns a listing by its ID.
func (r *MockListingRepository) GetByID(id string) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrListingNotFound, id)
	}
	return &listing, nil
}

// GetBySeller returns all listings owned by a seller.
func (r *MockListingRepository) GetBySeller(sellerID string) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Listing
	for _, l := range r.listings {
		if l.SellerID == sellerID {
			result = append(result, l)
		}
	}
	return result, nil
}

// Create adds a new listing.
func (r *MockListingRepository) Create(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	r.listings[listing.ID] = *listing
	return nil
}

// Update modifies an existing listing.
func (r *MockListingRepository) Update(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listing.ID]; !ok {
		return fmt.Errorf("%w: %s", models.ErrListingNotFound, listing.ID)
	}
	r.listings[listing.ID] = *listing
	return nil
}

// Delete removes a listing by its ID.
func (r *MockListingRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrListingNotFound, id)
	}
	delete(r.listings, id)
	return nil
}

// ReserveStock decrements quantity under the write lock.
func (r *MockListingRepository) ReserveStock(id string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", models.ErrInvalidQuantity, quantity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrListingNotFound, id)
	}
	if listing.Status != models.ListingActive && listing.Status != models.ListingSoldOut {
		return fmt.Errorf("%w: %s", models.ErrListingNotActive, id)
	}
	if listing.Status == models.ListingSoldOut || listing.Quantity < quantity {
		return fmt.Errorf("%w: listing %s has %d available, requested %d",
			models.ErrInsufficientStock, id, listing.Quantity, quantity)
	}

	listing.Quantity -= quantity
	if listing.Quantity == 0 {
		listing.Status = models.ListingSoldOut
	}
	r.listings[id] = listing
	return nil
}

// RestoreStock increments quantity under the write lock.
func (r *MockListingRepository) RestoreStock(id string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", models.ErrInvalidQuantity, quantity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrListingNotFound, id)
	}

	listing.Quantity += quantity
	if listing.Status == models.ListingSoldOut && listing.Quantity > 0 {
		listing.Status = models.ListingActive
	}
	r.listings[id] = listing
	return nil
}
