package repositories

import (
	"fmt"
	"sort"
	"sync"

	"pasar/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order with its items.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID, scoped to the buyer.
func (r *MockOrderRepository) GetByID(id, buyerID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok || order.BuyerID != buyerID {
		return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}
	return &order, nil
}

// GetByBuyer returns a page of a buyer's orders, newest first.
func (r *MockOrderRepository) GetByBuyer(buyerID string, offset, limit int) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Order
	for _, order := range r.orders {
		if order.BuyerID == buyerID {
			result = append(result, order)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

// UpdateStatus sets the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}
	order.Status = status
	r.orders[id] = order
	return nil
}

// Delete removes an order and its items.
func (r *MockOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}
	delete(r.orders, id)
	return nil
}

// HasDeliveredListing reports whether the buyer has a delivered order
// containing the listing.
func (r *MockOrderRepository) HasDeliveredListing(buyerID, listingID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.BuyerID != buyerID || order.Status != models.OrderDelivered {
			continue
		}
		for _, item := range order.Items {
			if item.ListingID == listingID {
				return true, nil
			}
		}
	}
	return false, nil
}
