package handlers

import (
	"log"

	"pasar/internal/middleware"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the cart and checkout.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddToCart)
	cartRoutes.Put("/items/:id", h.HandleUpdateCartItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveFromCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/checkout", h.HandleCheckout)
}

// HandleGetCart returns the user's cart with its total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	summary, err := h.service.GetCart(middleware.UserID(c))
	if err != nil {
		return respondError(c, "Could not retrieve cart", err)
	}
	return c.JSON(summary)
}

// AddToCartRequest represents the request body for adding a cart line.
type AddToCartRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// HandleAddToCart adds units of a listing to the user's cart.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	item, err := h.service.AddToCart(middleware.UserID(c), req.ListingID, req.Quantity)
	if err != nil {
		log.Printf("Error adding listing %s to cart: %v", req.ListingID, err)
		return respondError(c, "Could not add to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateCartItem sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateCartItem(c *fiber.Ctx) error {
	var req struct {
		Quantity int `json:"quantity" validate:"required,gt=0"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	item, err := h.service.UpdateCartItem(middleware.UserID(c), c.Params("id"), req.Quantity)
	if err != nil {
		return respondError(c, "Could not update cart item", err)
	}
	return c.JSON(item)
}

// HandleRemoveFromCart deletes one line from the user's cart.
func (h *CartHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	if err := h.service.RemoveFromCart(middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, "Could not remove cart item", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleClearCart empties the user's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(middleware.UserID(c)); err != nil {
		return respondError(c, "Could not clear cart", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCheckout converts the user's cart into a pending order.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	order, err := h.service.Checkout(middleware.UserID(c))
	if err != nil {
		log.Printf("Checkout failed for user %s: %v", middleware.UserID(c), err)
		return respondError(c, "Checkout failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}
