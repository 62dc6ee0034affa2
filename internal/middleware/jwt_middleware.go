package middleware

import (
	"errors"
	"strings"

	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys populated by AuthRequired.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// AuthRequired is a Fiber middleware that checks for a valid bearer token.
// A missing or malformed Authorization header is treated as not
// authenticated (403); a well-formed token that fails validation or has
// expired is an authentication failure (401).
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Missing Authorization header",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, models.ErrTokenExpired) {
				message = "Token expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": message,
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole gates a route group on the role hierarchy: admin passes any
// seller requirement, an admin requirement passes admins only. Must run
// after AuthRequired.
func RequireRole(required models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(models.Role)
		if !ok || !role.Can(required) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Insufficient permissions",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID from the request context.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
