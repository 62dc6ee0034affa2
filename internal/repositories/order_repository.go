package repositories

import "pasar/internal/models"

// OrderRepository defines the interface for order data access. Orders are
// always read and mutated scoped to their buyer.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id, buyerID string) (*models.Order, error)
	GetByBuyer(buyerID string, offset, limit int) ([]models.Order, error)
	UpdateStatus(id string, status models.OrderStatus) error
	Delete(id string) error

	// HasDeliveredListing reports whether the buyer has a delivered order
	// containing the given listing. Gates review creation.
	HasDeliveredListing(buyerID, listingID string) (bool, error)
}
