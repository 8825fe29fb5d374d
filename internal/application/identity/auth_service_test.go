package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Yousefaborizk/moonstar/internal/domain/identity"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/auth"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/config"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]identity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "moonstar-test",
	})
}

func newActiveUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("yousef", "correct-horse-battery", identity.RoleAdmin)
	require.NoError(t, err)
	return user
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return tokens and stamp the login", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, newJWTService(), nil)

		user := newActiveUser(t)
		userRepo.On("FindByUsername", ctx, "yousef").Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		resp, err := service.Login(ctx, LoginRequest{Username: "yousef", Password: "correct-horse-battery"})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Greater(t, resp.ExpiresIn, int64(0))
		assert.Equal(t, "yousef", resp.User.Username)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, newJWTService(), nil)

		user := newActiveUser(t)
		userRepo.On("FindByUsername", ctx, "yousef").Return(user, nil)
		userRepo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

		_, wrongPass := service.Login(ctx, LoginRequest{Username: "yousef", Password: "nope-nope-nope"})
		_, unknown := service.Login(ctx, LoginRequest{Username: "ghost", Password: "whatever-pass"})

		var passErr, userErr *shared.DomainError
		require.ErrorAs(t, wrongPass, &passErr)
		require.ErrorAs(t, unknown, &userErr)
		assert.Equal(t, passErr.Code, userErr.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", passErr.Code)
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, newJWTService(), nil)

		user := newActiveUser(t)
		user.Deactivate()
		userRepo.On("FindByUsername", ctx, "yousef").Return(user, nil)

		_, err := service.Login(ctx, LoginRequest{Username: "yousef", Password: "correct-horse-battery"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh token round trip", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		jwtService := newJWTService()
		service := NewAuthService(userRepo, jwtService, nil)

		user := newActiveUser(t)
		tokens, err := jwtService.GenerateTokenPair(user)
		require.NoError(t, err)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		resp, err := service.Refresh(ctx, RefreshRequest{RefreshToken: tokens.RefreshToken})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, user.ID, resp.User.ID)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		jwtService := newJWTService()
		service := NewAuthService(new(MockUserRepository), jwtService, nil)

		tokens, err := jwtService.GenerateTokenPair(newActiveUser(t))
		require.NoError(t, err)

		_, err = service.Refresh(ctx, RefreshRequest{RefreshToken: tokens.AccessToken})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a staff account by default", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, newJWTService(), nil)

		userRepo.On("FindByUsername", ctx, "hany").Return(nil, shared.ErrNotFound)
		userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := service.Register(ctx, RegisterUserRequest{
			Username: "hany",
			Password: "another-safe-pass",
		})

		require.NoError(t, err)
		assert.Equal(t, identity.RoleStaff, resp.Role)
		assert.True(t, resp.Active)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, newJWTService(), nil)

		userRepo.On("FindByUsername", ctx, "yousef").Return(newActiveUser(t), nil)

		_, err := service.Register(ctx, RegisterUserRequest{
			Username: "yousef",
			Password: "whatever-pass",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}
