package models

import "time"

// Review is a buyer's rating of a listing. A reviewer may review a given
// listing at most once, and only after a delivered order containing it.
type Review struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ListingID  string    `json:"listing_id" gorm:"uniqueIndex:idx_review_listing_reviewer;type:varchar(36)"`
	ReviewerID string    `json:"reviewer_id" gorm:"uniqueIndex:idx_review_listing_reviewer;type:varchar(36)"`
	Rating     int       `json:"rating"` // 1..5
	Comment    string    `json:"comment" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
