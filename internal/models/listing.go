package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	ListingActive   ListingStatus = "active"
	ListingInactive ListingStatus = "inactive"
	ListingSoldOut  ListingStatus = "sold_out"
	ListingDeleted  ListingStatus = "deleted"
)

// Valid reports whether s is one of the known listing statuses.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingActive, ListingInactive, ListingSoldOut, ListingDeleted:
		return true
	}
	return false
}

// Listing represents an item offered for sale by a seller.
//
// Price is captured rounded to two decimal places; carts and orders keep
// their own price snapshots, so later edits here never affect them.
// Quantity never goes below zero, and reaching zero through a purchase
// moves the status to sold_out.
type Listing struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SellerID    string          `json:"seller_id" gorm:"index;type:varchar(36)"`
	CategoryID  string          `json:"category_id" gorm:"index;type:varchar(36)"`
	Title       string          `json:"title" gorm:"type:varchar(200)"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2)"`
	Quantity    int             `json:"quantity"`
	Status      ListingStatus   `json:"status" gorm:"type:varchar(16);index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Purchasable reports whether the listing can currently be bought at all.
func (l *Listing) Purchasable() bool {
	return l.Status == ListingActive
}
