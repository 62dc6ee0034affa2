package services

import (
	"fmt"

	"pasar/internal/models"
	"pasar/internal/repositories"
)

// ReviewService handles business logic for listing reviews.
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	orderRepo   repositories.OrderRepository
	listingRepo repositories.ListingRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, orderRepo repositories.OrderRepository, listingRepo repositories.ListingRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
	}
}

// CreateReview records a rating for a listing. The reviewer must have a
// delivered order containing the listing and may review it only once.
func (s *ReviewService) CreateReview(reviewerID, listingID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: got %d", models.ErrInvalidRating, rating)
	}
	if _, err := s.listingRepo.GetByID(listingID); err != nil {
		return nil, err
	}

	purchased, err := s.orderRepo.HasDeliveredListing(reviewerID, listingID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, fmt.Errorf("%w: listing %s", models.ErrReviewNotAllowed, listingID)
	}

	if existing, err := s.reviewRepo.GetByListingAndReviewer(listingID, reviewerID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: listing %s", models.ErrReviewExists, listingID)
	}

	review := &models.Review{
		ListingID:  listingID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// GetListingReviews retrieves a page of reviews for a listing.
func (s *ReviewService) GetListingReviews(listingID string, offset, limit int) ([]models.Review, error) {
	return s.reviewRepo.GetByListing(listingID, offset, limit)
}

// UpdateReview edits the reviewer's own review.
func (s *ReviewService) UpdateReview(reviewerID, reviewID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: got %d", models.ErrInvalidRating, rating)
	}

	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != reviewerID {
		return nil, fmt.Errorf("%w: review %s belongs to another user", models.ErrForbidden, reviewID)
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes the reviewer's own review.
func (s *ReviewService) DeleteReview(reviewerID, reviewID string) error {
	return s.reviewRepo.Delete(reviewID, reviewerID)
}
