package repositories

import "pasar/internal/models"

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id string) (*models.Review, error)
	GetByListing(listingID string, offset, limit int) ([]models.Review, error)
	GetByListingAndReviewer(listingID, reviewerID string) (*models.Review, error)
	Update(review *models.Review) error
	Delete(id, reviewerID string) error
}
