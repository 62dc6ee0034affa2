package repositories

import (
	"fmt"
	"sync"

	"pasar/internal/models"

	"github.com/google/uuid"
)

// MockReviewRepository is an in-memory implementation of ReviewRepository.
type MockReviewRepository struct {
	reviews map[string]models.Review
	mu      sync.RWMutex
}

// NewMockReviewRepository creates a new instance of MockReviewRepository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[string]models.Review),
	}
}

// Create adds a new review, enforcing one review per (listing, reviewer).
func (r *MockReviewRepository) Create(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reviews {
		if existing.ListingID == review.ListingID && existing.ReviewerID == review.ReviewerID {
			return fmt.Errorf("%w: listing %s", models.ErrReviewExists, review.ListingID)
		}
	}
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	r.reviews[review.ID] = *review
	return nil
}

// GetByID returns a review by its ID.
func (r *MockReviewRepository) GetByID(id string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, ok := r.reviews[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrReviewNotFound, id)
	}
	return &review, nil
}

// GetByListing returns a page of reviews for a listing.
func (r *MockReviewRepository) GetByListing(listingID string, offset, limit int) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Review
	for _, review := range r.reviews {
		if review.ListingID == listingID {
			result = append(result, review)
		}
	}

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

// GetByListingAndReviewer returns the unique review for a (listing, reviewer)
// pair.
func (r *MockReviewRepository) GetByListingAndReviewer(listingID, reviewerID string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, review := range r.reviews {
		if review.ListingID == listingID && review.ReviewerID == reviewerID {
			return &review, nil
		}
	}
	return nil, fmt.Errorf("%w: listing %s", models.ErrReviewNotFound, listingID)
}

// Update modifies an existing review.
func (r *MockReviewRepository) Update(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[review.ID]; !ok {
		return fmt.Errorf("%w: %s", models.ErrReviewNotFound, review.ID)
	}
	r.reviews[review.ID] = *review
	return nil
}

// Delete removes a review, scoped to the reviewer.
func (r *MockReviewRepository) Delete(id, reviewerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[id]
	if !ok || review.ReviewerID != reviewerID {
		return fmt.Errorf("%w: %s", models.ErrReviewNotFound, id)
	}
	delete(r.reviews, id)
	return nil
}
