package handlers

import (
	"log"

	"pasar/internal/middleware"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	service  *services.ReviewService
	validate *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the review routes.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/listings/:id/reviews", h.HandleGetListingReviews)
	reviewRoutes := router.Group("/reviews")
	reviewRoutes.Post("/", h.HandleCreateReview)
	reviewRoutes.Put("/:id", h.HandleUpdateReview)
	reviewRoutes.Delete("/:id", h.HandleDeleteReview)
}

// HandleGetListingReviews retrieves a page of reviews for a listing.
func (h *ReviewHandler) HandleGetListingReviews(c *fiber.Ctx) error {
	reviews, err := h.service.GetListingReviews(c.Params("id"), c.QueryInt("offset", 0), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, "Could not retrieve reviews", err)
	}
	return c.JSON(reviews)
}

// ReviewRequest represents the request body for review mutations.
type ReviewRequest struct {
	ListingID string `json:"listing_id"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"omitempty,max=2000"`
}

// HandleCreateReview records a rating of a purchased listing.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	review, err := h.service.CreateReview(middleware.UserID(c), req.ListingID, req.Rating, req.Comment)
	if err != nil {
		log.Printf("Error creating review for listing %s: %v", req.ListingID, err)
		return respondError(c, "Could not create review", err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleUpdateReview edits the reviewer's own review.
func (h *ReviewHandler) HandleUpdateReview(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	review, err := h.service.UpdateReview(middleware.UserID(c), c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return respondError(c, "Could not update review", err)
	}
	return c.JSON(review)
}

// HandleDeleteReview removes the reviewer's own review.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	if err := h.service.DeleteReview(middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, "Could not delete review", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
