package repositories

import (
	"errors"
	"fmt"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUser retrieves all cart items for a user.
func (r *GORMCartRepository) GetByUser(userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Find(&items, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart items for user %s: %w", userID, err)
	}
	return items, nil
}

// GetByID retrieves a cart item by its ID, scoped to the owning user.
func (r *GORMCartRepository) GetByID(id, userID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.First(&item, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrCartItemNotFound, id)
		}
		return nil, fmt.Errorf("failed to get cart item %s: %w", id, err)
	}
	return &item, nil
}

// GetByUserAndListing retrieves the unique cart line for a (user, listing)
// pair, if any.
func (r *GORMCartRepository) GetByUserAndListing(userID, listingID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.First(&item, "user_id = ? AND listing_id = ?", userID, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: listing %s", models.ErrCartItemNotFound, listingID)
		}
		return nil, fmt.Errorf("failed to get cart item for listing %s: %w", listingID, err)
	}
	return &item, nil
}

// Create adds a new cart item.
func (r *GORMCartRepository) Create(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// Update modifies an existing cart item.
func (r *GORMCartRepository) Update(item *models.CartItem) error {
	res := r.db.Save(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrCartItemNotFound, item.ID)
	}
	return nil
}

// Delete removes a cart item, scoped to the owning user.
func (r *GORMCartRepository) Delete(id, userID string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrCartItemNotFound, id)
	}
	return nil
}

// ClearByUser removes every cart item belonging to a user.
func (r *GORMCartRepository) ClearByUser(userID string) error {
	if err := r.db.Delete(&models.CartItem{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}
