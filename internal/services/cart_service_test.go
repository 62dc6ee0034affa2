package services_test

import (
	"sync"
	"testing"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, routingKey)
	return nil
}

type cartFixture struct {
	listings  *repositories.MockListingRepository
	carts     *repositories.MockCartRepository
	orders    *repositories.MockOrderRepository
	publisher *recordingPublisher
	service   *services.CartService
}

func newCartFixture() *cartFixture {
	listings := repositories.NewMockListingRepository()
	carts := repositories.NewMockCartRepository()
	orders := repositories.NewMockOrderRepository()
	publisher := &recordingPublisher{}
	return &cartFixture{
		listings:  listings,
		carts:     carts,
		orders:    orders,
		publisher: publisher,
		service:   services.NewCartService(carts, listings, orders, publisher),
	}
}

func (f *cartFixture) seedListing(t *testing.T, id, price string, quantity int, status models.ListingStatus) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		ID:       id,
		SellerID: "seller-1",
		Title:    "Listing " + id,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
		Status:   status,
	}
	require.NoError(t, f.listings.Create(listing))
	return listing
}

func TestCartService_AddToCart(t *testing.T) {
	f := newCartFixture()
	f.seedListing(t, "l1", "19.99", 5, models.ListingActive)

	// First add snapshots the price
	item, err := f.service.AddToCart("buyer-1", "l1", 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.PriceAtAdd.Equal(decimal.RequireFromString("19.99")))

	// Re-adding the same listing accumulates quantity on the same line
	item, err = f.service.AddToCart("buyer-1", "l1", 2)
	assert.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)

	items, err := f.carts.GetByUser("buyer-1")
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	// Accumulating past available stock is rejected
	_, err = f.service.AddToCart("buyer-1", "l1", 2)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	// Non-positive quantity
	_, err = f.service.AddToCart("buyer-1", "l1", 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	// Unknown listing
	_, err = f.service.AddToCart("buyer-1", "ghost", 1)
	assert.ErrorIs(t, err, models.ErrListingNotFound)
}

func TestCartService_AddToCartInactiveListing(t *testing.T) {
	f := newCartFixture()
	f.seedListing(t, "l1", "10.00", 5, models.ListingInactive)

	_, err := f.service.AddToCart("buyer-1", "l1", 1)
	assert.ErrorIs(t, err, models.ErrListingNotActive)
}

func TestCartService_PriceSnapshotSurvivesPriceChange(t *testing.T) {
	f := newCartFixture()
	listing := f.seedListing(t, "l1", "19.99", 5, models.ListingActive)

	_, err := f.service.AddToCart("buyer-1", "l1", 3)
	require.NoError(t, err)

	// Seller raises the price after the item is in the cart
	listing.Price = decimal.RequireFromString("29.99")
	require.NoError(t, f.listings.Update(listing))

	summary, err := f.service.GetCart("buyer-1")
	assert.NoError(t, err)
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("59.97")),
		"cart total should use the price at add time, got %s", summary.Total)

	order, err := f.service.Checkout("buyer-1")
	assert.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("59.97")),
		"order total should use the price at add time, got %s", order.TotalAmount)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	f := newCartFixture()
	f.seedListing(t, "l1", "10.00", 5, models.ListingActive)

	item, err := f.service.AddToCart("buyer-1", "l1", 1)
	require.NoError(t, err)

	updated, err := f.service.UpdateCartItem("buyer-1", item.ID, 4)
	assert.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	// Raising above stock fails
	_, err = f.service.UpdateCartItem("buyer-1", item.ID, 6)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	// Another user cannot touch the line
	_, err = f.service.UpdateCartItem("buyer-2", item.ID, 1)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)
	err = f.service.RemoveFromCart("buyer-2", item.ID)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)

	assert.NoError(t, f.service.RemoveFromCart("buyer-1", item.ID))
	summary, err := f.service.GetCart("buyer-1")
	assert.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestCartService_CheckoutSuccess(t *testing.T) {
	f := newCartFixture()
	f.seedListing(t, "l1", "19.99", 5, models.ListingActive)

	_, err := f.service.AddToCart("buyer-1", "l1", 3)
	require.NoError(t, err)

	order, err := f.service.Checkout("buyer-1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "buyer-1", order.BuyerID)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("59.97")))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.True(t, order.Items[0].PriceAtTime.Equal(decimal.RequireFromString("19.99")))

	// Stock decremented, cart cleared
	listing, err := f.listings.GetByID("l1")
	require.NoError(t, err)
	assert.Equal(t, 2, listing.Quantity)
	assert.Equal(t, models.ListingActive, listing.Status)

	summary, err := f.service.GetCart("buyer-1")
	require.NoError(t, err)
	assert.Empty(t, summary.Items)

	assert.Equal(t, []string{"order.created"}, f.publisher.events)
}

func TestCartService_CheckoutSellsOutListing(t *testing.T) {
	f := newCartFixture()
	f.seedListing(t, "l1", "5.00", 2, models.ListingActive)

	_, err := f.service.AddToCart("buyer-1", "l1", 2)
	require.NoError(t, err)

	_, err = f.service.Checkout("buyer-1")
	assert.NoError(t, err)

	listing, err := f.listings.GetByID("l1")
	require.NoError(t, err)
	assert.Equal(t, 0, listing.Quantity)
	assert.Equal(t, models.ListingSoldOut, listing.Status)
}

func TestCartService_CheckoutEmptyCart(t *testing.T) {
	f := newCartFixture()

	_, err := f.service.Checkout("buyer-1")
	assert.ErrorIs(t, err, models.ErrCartEmpty)
}

func TestCartService_CheckoutAtomicOnUnderStockedLine(t *testing.T) {
	f := newCartFixture()
	f.seedListing(t, "good", "10.00", 5, models.ListingActive)
	f.seedListing(t, "scarce", "7.50", 4, models.ListingActive)

	_, err := f.service.AddToCart("buyer-1", "good", 2)
	require.NoError(t, err)
	_, err = f.service.AddToCart("buyer-1", "scarce", 3)
	require.NoError(t, err)

	// Another buyer takes most of the scarce stock before checkout
	require.NoError(t, f.listings.ReserveStock("scarce", 3))

	_, err = f.service.Checkout("buyer-1")
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "scarce")

	// The valid line's stock must not be consumed
	good, err := f.listings.GetByID("good")
	require.NoError(t, err)
	assert.Equal(t, 5, good.Quantity)

	// Cart stays intact, no order was created, no event published
	summary, err := f.service.GetCart("buyer-1")
	require.NoError(t, err)
	assert.Len(t, summary.Items, 2)
	orders, err := f.orders.GetByBuyer("buyer-1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.publisher.events)
}

func TestCartService_CheckoutInactiveLineAborts(t *testing.T) {
	f := newCartFixture()
	f.seedListing(t, "l1", "10.00", 5, models.ListingActive)

	_, err := f.service.AddToCart("buyer-1", "l1", 1)
	require.NoError(t, err)

	// Listing is deactivated between add and checkout
	listing, err := f.listings.GetByID("l1")
	require.NoError(t, err)
	listing.Status = models.ListingInactive
	require.NoError(t, f.listings.Update(listing))

	_, err = f.service.Checkout("buyer-1")
	assert.ErrorIs(t, err, models.ErrListingNotActive)

	orders, err := f.orders.GetByBuyer("buyer-1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCartService_ConcurrentCheckoutNeverOversells(t *testing.T) {
	f := newCartFixture()
	f.seedListing(t, "l1", "99.99", 1, models.ListingActive)

	_, err := f.service.AddToCart("buyer-1", "l1", 1)
	require.NoError(t, err)
	_, err = f.service.AddToCart("buyer-2", "l1", 1)
	require.NoError(t, err)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, buyer := range []string{"buyer-1", "buyer-2"} {
		wg.Add(1)
		go func(buyer string) {
			defer wg.Done()
			_, err := f.service.Checkout(buyer)
			results <- err
		}(buyer)
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, models.ErrInsufficientStock)
			conflicts++
		}
	}
	assert.Equal(t, 1, successes, "exactly one checkout must win")
	assert.Equal(t, 1, conflicts, "the other must see insufficient stock")

	listing, err := f.listings.GetByID("l1")
	require.NoError(t, err)
	assert.Equal(t, 0, listing.Quantity)
	assert.Equal(t, models.ListingSoldOut, listing.Status)
}
