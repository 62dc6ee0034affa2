package handlers

import (
	"errors"
	"fmt"

	"pasar/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusForError maps the domain error taxonomy onto HTTP status codes:
// validation 400, authentication 401, authorization 403, not-found 404,
// conflicts 409, everything else 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidUsername),
		errors.Is(err, models.ErrInvalidEmail),
		errors.Is(err, models.ErrWeakPassword),
		errors.Is(err, models.ErrInvalidRole),
		errors.Is(err, models.ErrEmptyUsername),
		errors.Is(err, models.ErrEmptyPassword),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, models.ErrCartEmpty):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrInvalidPassword),
		errors.Is(err, models.ErrTokenInvalid),
		errors.Is(err, models.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrNotAuthenticated),
		errors.Is(err, models.ErrForbidden),
		errors.Is(err, models.ErrAdminForbidden),
		errors.Is(err, models.ErrReviewNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrListingNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrCartItemNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrReviewNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrUsernameTaken),
		errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrListingNotActive),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrReviewExists):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// respondError writes the standard JSON error envelope for err.
func respondError(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// respondValidationErrors writes a per-field map for validator failures.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return respondError(c, "Validation failed", err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
