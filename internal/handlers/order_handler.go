package handlers

import (
	"log"

	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// HandleGetOrders retrieves the authenticated buyer's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrders(middleware.UserID(c), c.QueryInt("offset", 0), c.QueryInt("limit", 0))
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves one of the buyer's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"), middleware.UserID(c))
	if err != nil {
		return respondError(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus moves an order along the transition graph.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
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

	order, err := h.service.UpdateStatus(c.Params("id"), middleware.UserID(c), models.OrderStatus(req.Status))
	if err != nil {
		log.Printf("Error updating status of order %s: %v", c.Params("id"), err)
		return respondError(c, "Could not update order status", err)
	}
	return c.JSON(order)
}

// HandleCancelOrder cancels a pending order and restores its stock.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, err := h.service.CancelOrder(c.Params("id"), middleware.UserID(c))
	if err != nil {
		log.Printf("Error cancelling order %s: %v", c.Params("id"), err)
		return respondError(c, "Could not cancel order", err)
	}
	return c.JSON(order)
}
