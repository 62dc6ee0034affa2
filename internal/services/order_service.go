package services

import (
	"encoding/json"
	"fmt"
	"log"

	"pasar/internal/models"
	"pasar/internal/repositories"
)

// OrderService handles order retrieval and status transitions.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	listingRepo repositories.ListingRepository
	publisher   EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, listingRepo repositories.ListingRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		publisher:   publisher,
	}
}

// GetOrders retrieves a page of the buyer's orders.
func (s *OrderService) GetOrders(buyerID string, offset, limit int) ([]models.Order, error) {
	return s.orderRepo.GetByBuyer(buyerID, offset, limit)
}

// GetOrderByID retrieves one of the buyer's orders.
func (s *OrderService) GetOrderByID(orderID, buyerID string) (*models.Order, error) {
	return s.orderRepo.GetByID(orderID, buyerID)
}

// UpdateStatus moves an order along the transition graph. A transition to
// CANCELLED goes through CancelOrder so the stock restoration always
// happens.
func (s *OrderService) UpdateStatus(orderID, buyerID string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidTransition, status)
	}
	if status == models.OrderCancelled {
		return s.CancelOrder(orderID, buyerID)
	}

	order, err := s.orderRepo.GetByID(orderID, buyerID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}
	order.Status = status

	s.publishStatusEvent("order.status_changed", order)
	return order, nil
}

// CancelOrder cancels a pending order and restores the reserved stock for
// every line. Orders in any other state cannot be cancelled.
func (s *OrderService) CancelOrder(orderID, buyerID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID, buyerID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(models.OrderCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, order.Status, models.OrderCancelled)
	}

	if err := s.orderRepo.UpdateStatus(orderID, models.OrderCancelled); err != nil {
		return nil, err
	}
	order.Status = models.OrderCancelled

	// Inverse of the checkout reservation.
	for _, item := range order.Items {
		if err := s.listingRepo.RestoreStock(item.ListingID, item.Quantity); err != nil {
			log.Printf("Failed to restore %d units of listing %s for cancelled order %s: %v",
				item.Quantity, item.ListingID, orderID, err)
		}
	}

	s.publishStatusEvent("order.cancelled", order)
	return order, nil
}

func (s *OrderService) publishStatusEvent(routingKey string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id": order.ID,
		"buyer_id": order.BuyerID,
		"status":   order.Status,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", routingKey, order.ID, err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	}
}
