package services_test

import (
	"testing"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	reviews  *repositories.MockReviewRepository
	orders   *repositories.MockOrderRepository
	listings *repositories.MockListingRepository
	service  *services.ReviewService
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	reviews := repositories.NewMockReviewRepository()
	orders := repositories.NewMockOrderRepository()
	listings := repositories.NewMockListingRepository()
	require.NoError(t, listings.Create(&models.Listing{
		ID:       "l1",
		SellerID: "seller-1",
		Title:    "Keyboard",
		Price:    decimal.RequireFromString("10.00"),
		Quantity: 5,
		Status:   models.ListingActive,
	}))
	return &reviewFixture{
		reviews:  reviews,
		orders:   orders,
		listings: listings,
		service:  services.NewReviewService(reviews, orders, listings),
	}
}

// deliverOrder records a delivered order for the buyer containing the listing.
func (f *reviewFixture) deliverOrder(t *testing.T, buyerID, listingID string) {
	t.Helper()
	order := &models.Order{
		BuyerID:     buyerID,
		TotalAmount: decimal.RequireFromString("10.00"),
		Status:      models.OrderDelivered,
		Items: []models.OrderItem{
			{ListingID: listingID, Quantity: 1, PriceAtTime: decimal.RequireFromString("10.00")},
		},
	}
	require.NoError(t, f.orders.Create(order))
}

func TestReviewService_CreateReview(t *testing.T) {
	f := newReviewFixture(t)
	f.deliverOrder(t, "buyer-1", "l1")

	review, err := f.service.CreateReview("buyer-1", "l1", 4, "Solid keys")
	assert.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "buyer-1", review.ReviewerID)
	assert.NotEmpty(t, review.ID)
}

func TestReviewService_CreateReviewWithoutDelivery(t *testing.T) {
	f := newReviewFixture(t)

	// No order at all
	_, err := f.service.CreateReview("buyer-1", "l1", 4, "")
	assert.ErrorIs(t, err, models.ErrReviewNotAllowed)

	// An order that has not been delivered does not qualify
	order := &models.Order{
		BuyerID:     "buyer-1",
		TotalAmount: decimal.RequireFromString("10.00"),
		Status:      models.OrderPaid,
		Items: []models.OrderItem{
			{ListingID: "l1", Quantity: 1, PriceAtTime: decimal.RequireFromString("10.00")},
		},
	}
	require.NoError(t, f.orders.Create(order))

	_, err = f.service.CreateReview("buyer-1", "l1", 4, "")
	assert.ErrorIs(t, err, models.ErrReviewNotAllowed)
}

func TestReviewService_CreateReviewDuplicate(t *testing.T) {
	f := newReviewFixture(t)
	f.deliverOrder(t, "buyer-1", "l1")

	_, err := f.service.CreateReview("buyer-1", "l1", 4, "")
	require.NoError(t, err)

	_, err = f.service.CreateReview("buyer-1", "l1", 5, "")
	assert.ErrorIs(t, err, models.ErrReviewExists)
}

func TestReviewService_CreateReviewRatingBounds(t *testing.T) {
	f := newReviewFixture(t)
	f.deliverOrder(t, "buyer-1", "l1")

	for _, rating := range []int{0, -1, 6} {
		_, err := f.service.CreateReview("buyer-1", "l1", rating, "")
		assert.ErrorIs(t, err, models.ErrInvalidRating, "rating %d", rating)
	}
	for _, rating := range []int{1, 5} {
		f := newReviewFixture(t)
		f.deliverOrder(t, "buyer-1", "l1")
		_, err := f.service.CreateReview("buyer-1", "l1", rating, "")
		assert.NoError(t, err, "rating %d", rating)
	}
}

func TestReviewService_CreateReviewListingNotFound(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.service.CreateReview("buyer-1", "ghost", 4, "")
	assert.ErrorIs(t, err, models.ErrListingNotFound)
}

func TestReviewService_UpdateReview(t *testing.T) {
	f := newReviewFixture(t)
	f.deliverOrder(t, "buyer-1", "l1")

	review, err := f.service.CreateReview("buyer-1", "l1", 3, "Okay")
	require.NoError(t, err)

	updated, err := f.service.UpdateReview("buyer-1", review.ID, 5, "Grew on me")
	assert.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "Grew on me", updated.Comment)

	// Someone else cannot edit it
	_, err = f.service.UpdateReview("buyer-2", review.ID, 1, "")
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.service.UpdateReview("buyer-1", review.ID, 9, "")
	assert.ErrorIs(t, err, models.ErrInvalidRating)
}

func TestReviewService_DeleteReview(t *testing.T) {
	f := newReviewFixture(t)
	f.deliverOrder(t, "buyer-1", "l1")

	review, err := f.service.CreateReview("buyer-1", "l1", 3, "")
	require.NoError(t, err)

	err = f.service.DeleteReview("buyer-2", review.ID)
	assert.ErrorIs(t, err, models.ErrReviewNotFound)

	assert.NoError(t, f.service.DeleteReview("buyer-1", review.ID))

	reviews, err := f.service.GetListingReviews("l1", 0, 10)
	assert.NoError(t, err)
	assert.Empty(t, reviews)
}
