package services

import (
	"fmt"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/shopspring/decimal"
)

// ListingService handles business logic for the catalog and its inventory.
type ListingService struct {
	listingRepo  repositories.ListingRepository
	categoryRepo repositories.CategoryRepository
}

// NewListingService creates a new ListingService.
func NewListingService(listingRepo repositories.ListingRepository, categoryRepo repositories.CategoryRepository) *ListingService {
	return &ListingService{
		listingRepo:  listingRepo,
		categoryRepo: categoryRepo,
	}
}

// GetListings retrieves listings matching the filter.
func (s *ListingService) GetListings(filter repositories.ListingFilter) ([]models.Listing, error) {
	return s.listingRepo.GetAll(filter)
}

// GetListingByID retrieves a single listing.
func (s *ListingService) GetListingByID(id string) (*models.Listing, error) {
	return s.listingRepo.GetByID(id)
}

// GetSellerListings retrieves all listings owned by a seller.
func (s *ListingService) GetSellerListings(sellerID string) ([]models.Listing, error) {
	return s.listingRepo.GetBySeller(sellerID)
}

// CreateListing creates a listing for the seller. The price is rounded to
// two decimal places here, at the point of capture; carts and orders carry
// that value forward as their snapshot.
func (s *ListingService) CreateListing(sellerID string, listing *models.Listing) error {
	if listing.Price.IsNegative() {
		return models.ErrInvalidPrice
	}
	if listing.Quantity < 0 {
		return fmt.Errorf("%w: %d", models.ErrInvalidQuantity, listing.Quantity)
	}
	if _, err := s.categoryRepo.GetByID(listing.CategoryID); err != nil {
		return err
	}

	listing.SellerID = sellerID
	listing.Price = listing.Price.Round(2)
	if listing.Status == "" {
		listing.Status = models.ListingActive
	}
	return s.listingRepo.Create(listing)
}

// UpdateListing applies seller edits to an existing listing. Ownership is
// enforced; price edits never reach existing cart or order snapshots.
func (s *ListingService) UpdateListing(sellerID, listingID string, title, description string, price decimal.Decimal, quantity int) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, fmt.Errorf("%w: listing %s belongs to another seller", models.ErrForbidden, listingID)
	}
	if price.IsNegative() {
		return nil, models.ErrInvalidPrice
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidQuantity, quantity)
	}

	listing.Title = title
	listing.Description = description
	listing.Price = price.Round(2)
	listing.Quantity = quantity
	if quantity == 0 && listing.Status == models.ListingActive {
		listing.Status = models.ListingSoldOut
	}
	if quantity > 0 && listing.Status == models.ListingSoldOut {
		listing.Status = models.ListingActive
	}

	if err := s.listingRepo.Update(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// UpdateListingStatus sets the status of a seller's listing.
func (s *ListingService) UpdateListingStatus(sellerID, listingID string, status models.ListingStatus) (*models.Listing, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, fmt.Errorf("%w: listing %s belongs to another seller", models.ErrForbidden, listingID)
	}

	listing.Status = status
	if err := s.listingRepo.Update(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteListing removes a seller's listing.
func (s *ListingService) DeleteListing(sellerID, listingID string) error {
	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		return err
	}
	if listing.SellerID != sellerID {
		return fmt.Errorf("%w: listing %s belongs to another seller", models.ErrForbidden, listingID)
	}
	return s.listingRepo.Delete(listingID)
}
