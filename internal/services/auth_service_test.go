package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"market/internal/models"
	"market/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockMemberRepository is a mock implementation of repositories.MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(member *models.Member) error {
	args := m.Called(member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByUsername(username string) (*models.Member, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByEmail(email string) (*models.Member, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByID(id string) (*models.Member, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(os.Stdout) // Changed to stdout to see logs if any, can be changed to ioutil.Discard
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_RegisterMember(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Test successful registration
	member := &models.Member{
		Username: "testmember",
		Email:    "test@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", member.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", member.Email).Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Member")).Return(nil).Once()

	err := authService.RegisterMember(member)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleMember, member.Role)
	mockRepo.AssertExpectations(t)

	// Test username already taken
	mockRepo.On("GetByUsername", member.Username).Return(&models.Member{ID: "1"}, nil).Once()
	err = authService.RegisterMember(member)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "username 'testmember' already taken")
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByUsername", member.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", member.Email).Return(&models.Member{ID: "1"}, nil).Once()
	err = authService.RegisterMember(member)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginMember(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	member := &models.Member{
		ID:       "member-123",
		Username: "testmember",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleMember,
	}

	// Test successful login
	mockRepo.On("GetByUsername", member.Username).Return(member, nil).Once()

	token, err := authService.LoginMember("testmember", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate the token structure (optional, but good to check)
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, member.ID, claims["member_id"])
	assert.Equal(t, member.Username, claims["username"])
	assert.Equal(t, member.Role, claims["role"])
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByUsername", member.Username).Return(member, nil).Once()
	_, err = authService.LoginMember("testmember", "wrongpassword")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (member not found)
	mockRepo.On("GetByUsername", "nonexistent").Return(nil, models.ErrMemberNotFound).Once()
	_, err = authService.LoginMember("nonexistent", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials") // Should return generic invalid credentials message
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockMemberRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"member_id": "member-123",
		"username":  "testmember",
		"exp":       jwt.TimeFunc().Add(time.Hour).Unix(), // Expires in 1 hour
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "member-123", claims["member_id"])
	assert.Equal(t, "testmember", claims["username"])

	// Test invalid token (malformed)
	invalidTokenString := "invalid.token.string"
	_, err = authService.ValidateToken(invalidTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"member_id": "member-123",
		"username":  "testmember",
		"exp":       jwt.TimeFunc().Add(-time.Hour).Unix(), // Expired 1 hour ago
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}
