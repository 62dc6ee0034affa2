package repositories

import "pasar/internal/models"

// ListingFilter narrows GetAll results. Zero values mean no filtering;
// Limit 0 falls back to the repository default page size.
type ListingFilter struct {
	CategoryID string
	Status     models.ListingStatus
	Offset     int
	Limit      int
}

// ListingRepository defines the interface for listing data access.
//
// ReserveStock and RestoreStock are the only mutation paths for quantity
// driven by purchases; both must be safe against concurrent callers so two
// overlapping checkouts can never oversell a listing.
type ListingRepository interface {
	GetAll(filter ListingFilter) ([]models.Listing, error)
	GetByID(id string) (*models.Listing, error)
	GetBySeller(sellerID string) ([]models.Listing, error)
	Create(listing *models.Listing) error
	Update(listing *models.Listing) error
	Delete(id string) error

	// ReserveStock atomically decrements quantity when the listing is
	// active and has at least the requested amount; hitting zero flips the
	// status to sold_out. Fails with ErrListingNotFound, ErrListingNotActive
	// or ErrInsufficientStock.
	ReserveStock(id string, quantity int) error

	// RestoreStock increments quantity, reviving a sold_out listing to
	// active. Used only when a pending order is cancelled.
	RestoreStock(id string, quantity int) error
}
