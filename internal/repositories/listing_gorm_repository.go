package repositories

import (
	"errors"
	"fmt"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultPageSize = 100

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// GetAll retrieves listings matching the filter.
func (r *GORMListingRepository) GetAll(filter ListingFilter) ([]models.Listing, error) {
	query := r.db.Model(&models.Listing{})
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	var listings []models.Listing
	if err := query.Offset(filter.Offset).Limit(limit).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings: %w", err)
	}
	return listings, nil
}

// GetByID retrieves a single listing by its ID.
func (r *GORMListingRepository) GetByID(id string) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrListingNotFound, id)
		}
		return nil, fmt.Errorf("failed to get listing by ID %s: %w", id, err)
	}
	return &listing, nil
}

// GetBySeller retrieves all listings owned by a seller.
func (r *GORMListingRepository) GetBySeller(sellerID string) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.Find(&listings, "seller_id = ?", sellerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings for seller %s: %w", sellerID, err)
	}
	return listings, nil
}

// Create creates a new listing in the database.
func (r *GORMListingRepository) Create(listing *models.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if err := r.db.Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Update updates an existing listing in the database.
func (r *GORMListingRepository) Update(listing *models.Listing) error {
	res := r.db.Save(listing)
	if res.Error != nil {
		return fmt.Errorf("failed to update listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrListingNotFound, listing.ID)
	}
	return nil
}

// Delete removes a listing by its ID.
func (r *GORMListingRepository) Delete(id string) error {
	res := r.db.Delete(&models.Listing{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrListingNotFound, id)
	}
	return nil
}

// ReserveStock decrements quantity with a conditional UPDATE so that the
// check and the write are a single statement; a zero row count means the
// listing was missing, inactive, or under-stocked, and a follow-up read
// tells the three cases apart. Concurrent reservations against the same
// listing therefore serialize at the database row and can never drive the
// quantity negative.
func (r *GORMListingRepository) ReserveStock(id string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", models.ErrInvalidQuantity, quantity)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Listing{}).
			Where("id = ? AND status = ? AND quantity >= ?", id, models.ListingActive, quantity).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to reserve stock for listing %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			var listing models.Listing
			if err := tx.First(&listing, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", models.ErrListingNotFound, id)
				}
				return fmt.Errorf("failed to inspect listing %s: %w", id, err)
			}
			// sold_out is a stock state, not a seller decision, so it
			// reports as insufficient stock.
			if listing.Status != models.ListingActive && listing.Status != models.ListingSoldOut {
				return fmt.Errorf("%w: %s", models.ErrListingNotActive, id)
			}
			return fmt.Errorf("%w: listing %s has %d available, requested %d",
				models.ErrInsufficientStock, id, listing.Quantity, quantity)
		}

		// Selling the last unit flips the listing to sold_out.
		err := tx.Model(&models.Listing{}).
			Where("id = ? AND quantity = 0 AND status = ?", id, models.ListingActive).
			UpdateColumn("status", models.ListingSoldOut).Error
		if err != nil {
			return fmt.Errorf("failed to mark listing %s sold out: %w", id, err)
		}
		return nil
	})
}

// RestoreStock increments quantity and revives a sold_out listing.
func (r *GORMListingRepository) RestoreStock(id string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", models.ErrInvalidQuantity, quantity)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Listing{}).
			Where("id = ?", id).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to restore stock for listing %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", models.ErrListingNotFound, id)
		}

		err := tx.Model(&models.Listing{}).
			Where("id = ? AND quantity > 0 AND status = ?", id, models.ListingSoldOut).
			UpdateColumn("status", models.ListingActive).Error
		if err != nil {
			return fmt.Errorf("failed to reactivate listing %s: %w", id, err)
		}
		return nil
	})
}
