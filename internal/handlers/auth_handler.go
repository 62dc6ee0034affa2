package handlers

import (
	"log"

	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and account
// management.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterProtectedRoutes registers the routes that need a valid token.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/users/me", h.HandleCurrentUser)
	router.Delete("/users/me", h.HandleDeleteUser)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user, err := h.authService.Register(req.Username, req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		log.Printf("Error registering user %s: %v", req.Username, err)
		return respondError(c, "Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin handles user login and issues a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return respondError(c, "Authentication failed", err)
	}

	return c.JSON(fiber.Map{
		"message":      "Login successful",
		"access_token": token,
		"token_type":   "bearer",
	})
}

// HandleCurrentUser returns the authenticated user's account.
func (h *AuthHandler) HandleCurrentUser(c *fiber.Ctx) error {
	user, err := h.authService.CurrentUser(middleware.UserID(c))
	if err != nil {
		return respondError(c, "Could not load user", err)
	}
	return c.JSON(user)
}

// DeleteUserRequest carries the password re-verification for self-delete.
type DeleteUserRequest struct {
	Password string `json:"password" validate:"required"`
}

// HandleDeleteUser deletes the authenticated user's own account after
// re-verifying the password.
func (h *AuthHandler) HandleDeleteUser(c *fiber.Ctx) error {
	var req DeleteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.authService.DeleteUser(middleware.UserID(c), req.Password); err != nil {
		log.Printf("Error deleting user %s: %v", middleware.UserID(c), err)
		return respondError(c, "Could not delete user", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
