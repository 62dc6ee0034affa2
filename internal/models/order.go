package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the state of an order in its lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderRefunded  OrderStatus = "REFUNDED"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// orderTransitions is the full transition graph. CANCELLED and REFUNDED are
// terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPaid, OrderCancelled},
	OrderPaid:      {OrderShipped, OrderRefunded},
	OrderShipped:   {OrderDelivered},
	OrderDelivered: {OrderRefunded},
	OrderCancelled: {},
	OrderRefunded:  {},
}

// CanTransitionTo reports whether moving from s to next is a legal step in
// the order lifecycle. Anything not in the graph is rejected.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is an immutable purchase record created from a cart at checkout.
// Its items are snapshots; they are never re-read from the listing.
type Order struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BuyerID     string          `json:"buyer_id" gorm:"index;type:varchar(36)"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(10,2)"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(16)"`
	Items       []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem is a single purchased line. Quantity and PriceAtTime are fixed
// at order creation.
type OrderItem struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string          `json:"order_id" gorm:"index;type:varchar(36)"`
	ListingID   string          `json:"listing_id" gorm:"type:varchar(36)"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time" gorm:"type:numeric(10,2)"`
}
