package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 30 * time.Minute

var (
	usernamePattern = regexp.MustCompile(`^\w+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

// Claims is the identity a validated token asserts.
type Claims struct {
	UserID string
	Role   models.Role
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService. A non-positive tokenTTL falls
// back to DefaultTokenTTL.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register validates the credentials, enforces username/email uniqueness,
// hashes the password and creates the user. Registering as admin is always
// rejected.
func (s *AuthService) Register(username, email, password string, role models.Role) (*models.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if role == models.RoleAdmin {
		return nil, models.ErrAdminForbidden
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidRole, role)
	}

	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrUsernameTaken, username)
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrEmailTaken, email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login authenticates a user and returns a signed token. The same message
// is returned for an unknown username and a wrong password.
func (s *AuthService) Login(username, password string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", models.ErrEmptyUsername
	}
	if password == "" {
		return "", models.ErrEmptyPassword
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	return s.issueToken(user.ID, user.Role)
}

// issueToken encodes the subject and role into a signed HS256 token. The
// jti nonce keeps tokens unique even when two are issued within the same
// clock second.
func (s *AuthService) issueToken(userID string, role models.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  now.Add(s.tokenTTL).Unix(),
		"iat":  now.Unix(),
		"jti":  uuid.New().String(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning the claims it
// asserts. Expired tokens report ErrTokenExpired; anything else that fails
// signature or shape checks reports ErrTokenInvalid.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, models.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", models.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, models.ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	role := models.Role(roleStr)
	if sub == "" || !role.Valid() {
		return nil, models.ErrTokenInvalid
	}

	return &Claims{UserID: sub, Role: role}, nil
}

// CurrentUser resolves a validated subject to its account. A token can
// outlive its account, so this may report ErrUserNotFound.
func (s *AuthService) CurrentUser(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// DeleteUser removes an account after re-verifying the password.
func (s *AuthService) DeleteUser(userID, password string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.ErrInvalidPassword
	}
	return s.userRepo.Delete(userID)
}

// ValidateUsername checks the 3-30 character word-pattern constraint.
func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 30 {
		return fmt.Errorf("%w: must be between 3 and 30 characters", models.ErrInvalidUsername)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: only letters, numbers, and underscores allowed", models.ErrInvalidUsername)
	}
	return nil
}

// ValidateEmail checks the basic local@domain.tld shape and the RFC-5321
// length limits.
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("%w: address too long", models.ErrInvalidEmail)
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("%w: %s", models.ErrInvalidEmail, email)
	}
	if at > 64 {
		return fmt.Errorf("%w: local part too long", models.ErrInvalidEmail)
	}
	if len(email)-at-1 > 255 {
		return fmt.Errorf("%w: domain too long", models.ErrInvalidEmail)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: %s", models.ErrInvalidEmail, email)
	}
	return nil
}

// ValidatePassword enforces the complexity policy: at least 8 characters
// with one uppercase, one lowercase, one digit and one special character.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: must be at least 8 characters", models.ErrWeakPassword)
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, c):
			hasSpecial = true
		}
	}
	switch {
	case !hasUpper:
		return fmt.Errorf("%w: must contain an uppercase letter", models.ErrWeakPassword)
	case !hasLower:
		return fmt.Errorf("%w: must contain a lowercase letter", models.ErrWeakPassword)
	case !hasDigit:
		return fmt.Errorf("%w: must contain a digit", models.ErrWeakPassword)
	case !hasSpecial:
		return fmt.Errorf("%w: must contain a special character", models.ErrWeakPassword)
	}
	return nil
}
