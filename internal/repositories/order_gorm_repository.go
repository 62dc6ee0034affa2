package repositories

import (
	"errors"
	"fmt"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists an order together with its items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order with its items, scoped to the buyer.
func (r *GORMOrderRepository) GetByID(id, buyerID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, "id = ? AND buyer_id = ?", id, buyerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// GetByBuyer retrieves a page of a buyer's orders, newest first.
func (r *GORMOrderRepository) GetByBuyer(buyerID string, offset, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for buyer %s: %w", buyerID, err)
	}
	return orders, nil
}

// UpdateStatus sets the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}
	return nil
}

// Delete removes an order; its items cascade.
func (r *GORMOrderRepository) Delete(id string) error {
	res := r.db.Select("Items").Delete(&models.Order{ID: id})
	if res.Error != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}
	return nil
}

// HasDeliveredListing reports whether the buyer has a delivered order
// containing the listing.
func (r *GORMOrderRepository) HasDeliveredListing(buyerID, listingID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.buyer_id = ? AND orders.status = ? AND order_items.listing_id = ?",
			buyerID, models.OrderDelivered, listingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check delivered orders for buyer %s: %w", buyerID, err)
	}
	return count > 0, nil
}
