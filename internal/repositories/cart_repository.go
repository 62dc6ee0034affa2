package repositories

import "pasar/internal/models"

// CartRepository defines the interface for cart item data access.
type CartRepository interface {
	GetByUser(userID string) ([]models.CartItem, error)
	GetByID(id, userID string) (*models.CartItem, error)
	GetByUserAndListing(userID, listingID string) (*models.CartItem, error)
	Create(item *models.CartItem) error
	Update(item *models.CartItem) error
	Delete(id, userID string) error
	ClearByUser(userID string) error
}
