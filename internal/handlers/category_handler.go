package handlers

import (
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the read-only category routes.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
}

// RegisterAdminRoutes registers the admin-gated mutation routes.
func (h *CategoryHandler) RegisterAdminRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Put("/:id", h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", h.HandleDeleteCategory)
}

// HandleGetCategories retrieves a page of categories.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories(c.QueryInt("offset", 0), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleGetCategoryByID retrieves a single category.
func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryByID(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve category", err)
	}
	return c.JSON(category)
}

// CategoryRequest represents the request body for category mutations.
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
	ParentID    *string `json:"parent_id"`
}

// HandleCreateCategory creates a new category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	if err := h.service.CreateCategory(category); err != nil {
		return respondError(c, "Could not create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory updates name and description of a category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	category, err := h.service.UpdateCategory(c.Params("id"), req.Name, req.Description)
	if err != nil {
		return respondError(c, "Could not update category", err)
	}
	return c.JSON(category)
}

// HandleDeleteCategory removes a category.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.Params("id")); err != nil {
		return respondError(c, "Could not delete category", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
