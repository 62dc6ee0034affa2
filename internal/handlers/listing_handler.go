package handlers

import (
	"log"

	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ListingHandler handles HTTP requests for listings.
type ListingHandler struct {
	service  *services.ListingService
	validate *validator.Validate
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *services.ListingService) *ListingHandler {
	return &ListingHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers read-only listing routes.
func (h *ListingHandler) RegisterRoutes(router fiber.Router) {
	listingRoutes := router.Group("/listings")
	listingRoutes.Get("/", h.HandleGetListings)
	listingRoutes.Get("/:id", h.HandleGetListingByID)
}

// RegisterSellerRoutes registers the seller-gated mutation routes.
func (h *ListingHandler) RegisterSellerRoutes(router fiber.Router) {
	listingRoutes := router.Group("/listings")
	listingRoutes.Get("/mine/all", h.HandleGetMyListings)
	listingRoutes.Post("/", h.HandleCreateListing)
	listingRoutes.Put("/:id", h.HandleUpdateListing)
	listingRoutes.Patch("/:id/status", h.HandleUpdateListingStatus)
	listingRoutes.Delete("/:id", h.HandleDeleteListing)
}

// HandleGetListings retrieves listings, optionally filtered by category and
// status.
func (h *ListingHandler) HandleGetListings(c *fiber.Ctx) error {
	filter := repositories.ListingFilter{
		CategoryID: c.Query("category_id"),
		Status:     models.ListingStatus(c.Query("status")),
		Offset:     c.QueryInt("offset", 0),
		Limit:      c.QueryInt("limit", 0),
	}
	listings, err := h.service.GetListings(filter)
	if err != nil {
		log.Printf("Error getting listings: %v", err)
		return respondError(c, "Could not retrieve listings", err)
	}
	return c.JSON(listings)
}

// HandleGetListingByID retrieves a single listing.
func (h *ListingHandler) HandleGetListingByID(c *fiber.Ctx) error {
	listing, err := h.service.GetListingByID(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve listing", err)
	}
	return c.JSON(listing)
}

// HandleGetMyListings retrieves the authenticated seller's listings.
func (h *ListingHandler) HandleGetMyListings(c *fiber.Ctx) error {
	listings, err := h.service.GetSellerListings(middleware.UserID(c))
	if err != nil {
		return respondError(c, "Could not retrieve listings", err)
	}
	return c.JSON(listings)
}

// ListingRequest represents the request body for creating or updating a
// listing.
type ListingRequest struct {
	Title       string          `json:"title" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	CategoryID  string          `json:"category_id" validate:"required"`
}

// HandleCreateListing creates a new listing for the authenticated seller.
func (h *ListingHandler) HandleCreateListing(c *fiber.Ctx) error {
	var req ListingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	listing := &models.Listing{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
	}
	if err := h.service.CreateListing(middleware.UserID(c), listing); err != nil {
		log.Printf("Error creating listing: %v", err)
		return respondError(c, "Could not create listing", err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// HandleUpdateListing applies seller edits to a listing.
func (h *ListingHandler) HandleUpdateListing(c *fiber.Ctx) error {
	var req ListingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	listing, err := h.service.UpdateListing(middleware.UserID(c), c.Params("id"),
		req.Title, req.Description, req.Price, req.Quantity)
	if err != nil {
		log.Printf("Error updating listing %s: %v", c.Params("id"), err)
		return respondError(c, "Could not update listing", err)
	}
	return c.JSON(listing)
}

// HandleUpdateListingStatus sets the status of a seller's listing.
func (h *ListingHandler) HandleUpdateListingStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status" validate:"required"`
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

	listing, err := h.service.UpdateListingStatus(middleware.UserID(c), c.Params("id"), models.ListingStatus(req.Status))
	if err != nil {
		return respondError(c, "Could not update listing status", err)
	}
	return c.JSON(listing)
}

// HandleDeleteListing removes a seller's listing.
func (h *ListingHandler) HandleDeleteListing(c *fiber.Ctx) error {
	if err := h.service.DeleteListing(middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, "Could not delete listing", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
