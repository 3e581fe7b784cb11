package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"launchpad/client-portal/client-portal-backend/internal/config"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) UpdateUser(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestService(repo Repository) *Service {
	cfg := config.SecurityConfig{
		JWTSecret:     "test-secret",
		TokenLifetime: time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}
	return NewService(repo, cfg, zap.NewNop())
}

func testUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &User{
		UserID:       uuid.New(),
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		FullName:     "Ana Ferreira",
		WorkspaceID:  uuid.New(),
		PlanID:       "growth",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(nil, ErrUserNotFound)
	repo.On("CreateUser", mock.Anything, mock.AnythingOfType("*auth.User")).Return(nil)

	service := newTestService(repo)
	user, err := service.Register(context.Background(), RegisterRequest{
		Email:    "ana@example.com",
		Password: "correct-horse",
		FullName: "Ana Ferreira",
	})

	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
	assert.Equal(t, "starter", user.PlanID)
	assert.NotEqual(t, uuid.Nil, user.WorkspaceID)
	repo.AssertExpectations(t)
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(testUser(t, "x"), nil)

	service := newTestService(repo)
	_, err := service.Register(context.Background(), RegisterRequest{
		Email:    "ana@example.com",
		Password: "correct-horse",
		FullName: "Ana Ferreira",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	user := testUser(t, "correct-horse")
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	service := newTestService(repo)
	tokens, err := service.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.True(t, tokens.ExpiresAt.After(time.Now()))

	claims, err := service.ParseToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, claims.UserID)
	assert.Equal(t, user.WorkspaceID, claims.WorkspaceID)
	assert.Equal(t, "access", claims.TokenType)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	user := testUser(t, "correct-horse")
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	service := newTestService(repo)
	_, err := service.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrUserNotFound)

	service := newTestService(repo)
	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshExchangesToken(t *testing.T) {
	user := testUser(t, "correct-horse")
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)
	repo.On("GetUserByID", mock.Anything, user.UserID).Return(user, nil)

	service := newTestService(repo)
	tokens, err := service.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	})
	require.NoError(t, err)

	fresh, err := service.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	user := testUser(t, "correct-horse")
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	service := newTestService(repo)
	tokens, err := service.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	})
	require.NoError(t, err)

	// An access token must not pass for a refresh token
	_, err = service.Refresh(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	service := newTestService(new(MockRepository))
	_, err := service.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	user := testUser(t, "correct-horse")
	repo := new(MockRepository)
	repo.On("GetUserByID", mock.Anything, user.UserID).Return(user, nil)
	repo.On("UpdateUser", mock.Anything, mock.AnythingOfType("*auth.User")).Return(nil)

	service := newTestService(repo)

	err := service.ChangePassword(context.Background(), user.UserID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = service.ChangePassword(context.Background(), user.UserID, ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "new-password-1",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-password-1")))
}
