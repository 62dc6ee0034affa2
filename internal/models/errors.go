package models

import "errors"

// Sentinel errors shared by repositories, services, and handlers. They are
// wrapped with fmt.Errorf("%w: ...") to attach detail and matched with
// errors.Is at the HTTP boundary.
var (
	// Validation.
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrWeakPassword    = errors.New("weak password")
	ErrInvalidRole     = errors.New("invalid role")
	ErrEmptyUsername   = errors.New("username is required")
	ErrEmptyPassword   = errors.New("password is required")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStatus   = errors.New("invalid listing status")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")

	// Authentication and authorization.
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrForbidden          = errors.New("forbidden")
	ErrAdminForbidden     = errors.New("cannot register as admin")

	// Conflicts.
	ErrUsernameTaken     = errors.New("username already taken")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrListingNotActive  = errors.New("listing not active")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrReviewExists      = errors.New("listing already reviewed")
	ErrReviewNotAllowed  = errors.New("only delivered purchases can be reviewed")

	// Not found.
	ErrUserNotFound     = errors.New("user not found")
	ErrListingNotFound  = errors.New("listing not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrReviewNotFound   = errors.New("review not found")
)
