package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/shopspring/decimal"
)

// EventPublisher pushes domain events to the message broker. Publishing is
// best effort; a broker failure never fails the workflow that triggered it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// CartService handles the cart and the checkout workflow.
type CartService struct {
	cartRepo    repositories.CartRepository
	listingRepo repositories.ListingRepository
	orderRepo   repositories.OrderRepository
	publisher   EventPublisher
}

// NewCartService creates a new CartService. publisher may be nil, in which
// case no events are emitted.
func NewCartService(
	cartRepo repositories.CartRepository,
	listingRepo repositories.ListingRepository,
	orderRepo repositories.OrderRepository,
	publisher EventPublisher,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		listingRepo: listingRepo,
		orderRepo:   orderRepo,
		publisher:   publisher,
	}
}

// AddToCart puts quantity units of a listing into the user's cart. Adding a
// listing that is already in the cart accumulates its quantity. The listing
// price is snapshotted on the first add and kept on re-adds.
func (s *CartService) AddToCart(userID, listingID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidQuantity, quantity)
	}

	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		return nil, err
	}
	if !listing.Purchasable() {
		return nil, fmt.Errorf("%w: %s", models.ErrListingNotActive, listingID)
	}
	if listing.Quantity < quantity {
		return nil, fmt.Errorf("%w: listing %s has %d available, requested %d",
			models.ErrInsufficientStock, listingID, listing.Quantity, quantity)
	}

	existing, err := s.cartRepo.GetByUserAndListing(userID, listingID)
	if err == nil {
		newQuantity := existing.Quantity + quantity
		if listing.Quantity < newQuantity {
			return nil, fmt.Errorf("%w: listing %s has %d available, requested %d",
				models.ErrInsufficientStock, listingID, listing.Quantity, newQuantity)
		}
		existing.Quantity = newQuantity
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	item := &models.CartItem{
		UserID:     userID,
		ListingID:  listingID,
		Quantity:   quantity,
		PriceAtAdd: listing.Price,
		AddedAt:    time.Now(),
	}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetCart returns the user's cart items with their exact-decimal total.
func (s *CartService) GetCart(userID string) (*models.CartSummary, error) {
	items, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.PriceAtAdd.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return &models.CartSummary{Items: items, Total: total}, nil
}

// UpdateCartItem sets the quantity of an existing cart line, re-checking
// current stock.
func (s *CartService) UpdateCartItem(userID, itemID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidQuantity, quantity)
	}

	item, err := s.cartRepo.GetByID(itemID, userID)
	if err != nil {
		return nil, err
	}
	listing, err := s.listingRepo.GetByID(item.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Quantity < quantity {
		return nil, fmt.Errorf("%w: listing %s has %d available, requested %d",
			models.ErrInsufficientStock, item.ListingID, listing.Quantity, quantity)
	}

	item.Quantity = quantity
	if err := s.cartRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveFromCart deletes one line from the user's cart.
func (s *CartService) RemoveFromCart(userID, itemID string) error {
	return s.cartRepo.Delete(itemID, userID)
}

// ClearCart empties the user's cart.
func (s *CartService) ClearCart(userID string) error {
	return s.cartRepo.ClearByUser(userID)
}

// Checkout converts the user's cart into a pending order.
//
// Every line is re-validated against the live listing, then reserved
// through the repository's atomic decrement. If any reservation fails the
// ones already taken are released in reverse order, so a partially valid
// cart never consumes stock and never produces an order. The total is the
// sum of price_at_add x quantity over all lines; prices were already
// rounded when captured, so no rounding happens here.
func (s *CartService) Checkout(buyerID string) (*models.Order, error) {
	items, err := s.cartRepo.GetByUser(buyerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrCartEmpty
	}

	total := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(items))
	reserved := make([]models.CartItem, 0, len(items))

	for _, item := range items {
		if err := s.listingRepo.ReserveStock(item.ListingID, item.Quantity); err != nil {
			s.releaseReservations(reserved)
			return nil, err
		}
		reserved = append(reserved, item)

		total = total.Add(item.PriceAtAdd.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, models.OrderItem{
			ListingID:   item.ListingID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtAdd,
		})
	}

	order := &models.Order{
		BuyerID:     buyerID,
		TotalAmount: total,
		Status:      models.OrderPending,
		Items:       orderItems,
	}
	if err := s.orderRepo.Create(order); err != nil {
		s.releaseReservations(reserved)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.cartRepo.ClearByUser(buyerID); err != nil {
		// Back out completely rather than leave a sellable cart next to a
		// live order.
		if delErr := s.orderRepo.Delete(order.ID); delErr != nil {
			log.Printf("Failed to delete order %s while backing out checkout: %v", order.ID, delErr)
		}
		s.releaseReservations(reserved)
		return nil, fmt.Errorf("failed to clear cart after checkout: %w", err)
	}

	s.publishOrderEvent("order.created", order)
	return order, nil
}

// releaseReservations returns reserved stock after a failed checkout,
// newest reservation first.
func (s *CartService) releaseReservations(reserved []models.CartItem) {
	for i := len(reserved) - 1; i >= 0; i-- {
		item := reserved[i]
		if err := s.listingRepo.RestoreStock(item.ListingID, item.Quantity); err != nil {
			log.Printf("Failed to release %d units of listing %s: %v", item.Quantity, item.ListingID, err)
		}
	}
}

func (s *CartService) publishOrderEvent(routingKey string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id": order.ID,
		"buyer_id": order.BuyerID,
		"status":   order.Status,
		"total":    order.TotalAmount,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", routingKey, order.ID, err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	}
}
