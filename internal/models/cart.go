package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one pending line in a user's cart. At most one line exists per
// (user, listing) pair; re-adding the same listing accumulates quantity.
// PriceAtAdd is the listing price snapshotted when the line was first added
// and is immune to later price edits by the seller.
type CartItem struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string          `json:"user_id" gorm:"uniqueIndex:idx_cart_user_listing;type:varchar(36)"`
	ListingID  string          `json:"listing_id" gorm:"uniqueIndex:idx_cart_user_listing;type:varchar(36)"`
	Quantity   int             `json:"quantity"`
	PriceAtAdd decimal.Decimal `json:"price_at_add" gorm:"type:numeric(10,2)"`
	AddedAt    time.Time       `json:"added_at"`
}

// CartSummary is a user's cart plus its exact-decimal total.
type CartSummary struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}
