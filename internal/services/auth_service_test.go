package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// TestMain is used to set up the test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

const testJWTSecret = "test_jwt_secret"

func notFoundErr(what string) error {
	return fmt.Errorf("%w: %s", models.ErrUserNotFound, what)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0)

	// Successful registration
	mockRepo.On("GetByUsername", "alice").Return(nil, notFoundErr("alice")).Once()
	mockRepo.On("GetByEmail", "a@x.com").Return(nil, notFoundErr("a@x.com")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.Register("alice", "a@x.com", "Abcdef1!", models.RoleBuyer)
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleBuyer, user.Role)
	assert.NotEqual(t, "Abcdef1!", user.Password) // stored hashed
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Abcdef1!")))
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", "alice").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.Register("alice", "other@x.com", "Abcdef1!", models.RoleBuyer)
	assert.ErrorIs(t, err, models.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByUsername", "bob").Return(nil, notFoundErr("bob")).Once()
	mockRepo.On("GetByEmail", "a@x.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.Register("bob", "a@x.com", "Abcdef1!", models.RoleBuyer)
	assert.ErrorIs(t, err, models.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		role     models.Role
		wantErr  error
	}{
		{"admin forbidden", "alice", "a@x.com", "Abcdef1!", models.RoleAdmin, models.ErrAdminForbidden},
		{"unknown role", "alice", "a@x.com", "Abcdef1!", models.Role("owner"), models.ErrInvalidRole},
		{"username too short", "al", "a@x.com", "Abcdef1!", models.RoleBuyer, models.ErrInvalidUsername},
		{"username too long", "a23456789012345678901234567890x", "a@x.com", "Abcdef1!", models.RoleBuyer, models.ErrInvalidUsername},
		{"username bad chars", "al ice!", "a@x.com", "Abcdef1!", models.RoleBuyer, models.ErrInvalidUsername},
		{"email no at", "alice", "ax.com", "Abcdef1!", models.RoleBuyer, models.ErrInvalidEmail},
		{"email no tld", "alice", "a@xcom", "Abcdef1!", models.RoleBuyer, models.ErrInvalidEmail},
		{"password too short", "alice", "a@x.com", "Ab1!", models.RoleBuyer, models.ErrWeakPassword},
		{"password no upper", "alice", "a@x.com", "abcdef1!", models.RoleBuyer, models.ErrWeakPassword},
		{"password no lower", "alice", "a@x.com", "ABCDEF1!", models.RoleBuyer, models.ErrWeakPassword},
		{"password no digit", "alice", "a@x.com", "Abcdefg!", models.RoleBuyer, models.ErrWeakPassword},
		{"password no special", "alice", "a@x.com", "Abcdefg1", models.RoleBuyer, models.ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Register(tt.username, tt.email, tt.password, tt.role)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// No repository call should have been made for any rejected input.
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("Abcdef1!"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "alice",
		Email:    "a@x.com",
		Password: string(hashed),
		Role:     models.RoleBuyer,
	}

	// Successful login
	mockRepo.On("GetByUsername", "alice").Return(user, nil).Once()
	token, err := authService.Login("alice", "Abcdef1!")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, "user-123", claims["sub"])
	assert.Equal(t, "buyer", claims["role"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", "alice").Return(user, nil).Once()
	_, err = authService.Login("alice", "wrongpassword")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown user gets the same generic failure
	mockRepo.On("GetByUsername", "nobody").Return(nil, notFoundErr("nobody")).Once()
	_, err = authService.Login("nobody", "Abcdef1!")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Empty credentials are validation failures, not auth failures
	_, err = authService.Login("", "Abcdef1!")
	assert.ErrorIs(t, err, models.ErrEmptyUsername)
	_, err = authService.Login("alice", "")
	assert.ErrorIs(t, err, models.ErrEmptyPassword)
}

func TestAuthService_TokenUniquePerLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("Abcdef1!"), bcrypt.MinCost)
	user := &models.User{ID: "user-123", Username: "alice", Password: string(hashed), Role: models.RoleBuyer}

	// Two logins within the same second still yield distinct tokens thanks
	// to the jti nonce claim.
	mockRepo.On("GetByUsername", "alice").Return(user, nil).Twice()
	first, err := authService.Login("alice", "Abcdef1!")
	assert.NoError(t, err)
	second, err := authService.Login("alice", "Abcdef1!")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0)

	signToken := func(claims jwt.MapClaims, secret string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, _ := token.SignedString([]byte(secret))
		return signed
	}

	// Valid token round-trips subject and role
	valid := signToken(jwt.MapClaims{
		"sub":  "user-123",
		"role": "seller",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	claims, err := authService.ValidateToken(valid)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.RoleSeller, claims.Role)

	// Expired token is reported distinctly
	expired := signToken(jwt.MapClaims{
		"sub":  "user-123",
		"role": "seller",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}, testJWTSecret)
	_, err = authService.ValidateToken(expired)
	assert.ErrorIs(t, err, models.ErrTokenExpired)

	// Wrong secret
	forged := signToken(jwt.MapClaims{
		"sub":  "user-123",
		"role": "seller",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, "another_secret")
	_, err = authService.ValidateToken(forged)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)

	// Garbage
	_, err = authService.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, models.ErrTokenInvalid)

	// Missing subject claim
	noSub := signToken(jwt.MapClaims{
		"role": "seller",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	_, err = authService.ValidateToken(noSub)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)

	// Unknown role claim
	badRole := signToken(jwt.MapClaims{
		"sub":  "user-123",
		"role": "superuser",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	_, err = authService.ValidateToken(badRole)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestAuthService_TokenRoundTripThroughLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("Abcdef1!"), bcrypt.MinCost)
	user := &models.User{ID: "user-123", Username: "alice", Password: string(hashed), Role: models.RoleBuyer}

	mockRepo.On("GetByUsername", "alice").Return(user, nil).Once()
	token, err := authService.Login("alice", "Abcdef1!")
	assert.NoError(t, err)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.RoleBuyer, claims.Role)
}

func TestAuthService_DeleteUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("Abcdef1!"), bcrypt.MinCost)
	user := &models.User{ID: "user-123", Username: "alice", Password: string(hashed)}

	// Correct password deletes the account
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockRepo.On("Delete", "user-123").Return(nil).Once()
	assert.NoError(t, authService.DeleteUser("user-123", "Abcdef1!"))
	mockRepo.AssertExpectations(t)

	// Wrong password keeps the account
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	err := authService.DeleteUser("user-123", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidPassword)

	// Unknown user
	mockRepo.On("GetByID", "ghost").Return(nil, notFoundErr("ghost")).Once()
	err = authService.DeleteUser("ghost", "Abcdef1!")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
