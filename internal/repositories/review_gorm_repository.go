package repositories

import (
	"errors"
	"fmt"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// Create creates a new review.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by its ID.
func (r *GORMReviewRepository) GetByID(id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrReviewNotFound, id)
		}
		return nil, fmt.Errorf("failed to get review by ID %s: %w", id, err)
	}
	return &review, nil
}

// GetByListing retrieves a page of reviews for a listing.
func (r *GORMReviewRepository) GetByListing(listingID string, offset, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	var reviews []models.Review
	err := r.db.Where("listing_id = ?", listingID).
		Offset(offset).Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for listing %s: %w", listingID, err)
	}
	return reviews, nil
}

// GetByListingAndReviewer retrieves the unique review for a
// (listing, reviewer) pair, if any.
func (r *GORMReviewRepository) GetByListingAndReviewer(listingID, reviewerID string) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, "listing_id = ? AND reviewer_id = ?", listingID, reviewerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: listing %s", models.ErrReviewNotFound, listingID)
		}
		return nil, fmt.Errorf("failed to get review for listing %s: %w", listingID, err)
	}
	return &review, nil
}

// Update updates an existing review.
func (r *GORMReviewRepository) Update(review *models.Review) error {
	res := r.db.Save(review)
	if res.Error != nil {
		return fmt.Errorf("failed to update review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrReviewNotFound, review.ID)
	}
	return nil
}

// Delete removes a review, scoped to its author.
func (r *GORMReviewRepository) Delete(id, reviewerID string) error {
	res := r.db.Delete(&models.Review{}, "id = ? AND reviewer_id = ?", id, reviewerID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrReviewNotFound, id)
	}
	return nil
}
