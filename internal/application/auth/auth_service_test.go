package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wheeltrade/backend/internal/domain/dealer"
	"github.com/wheeltrade/backend/internal/domain/identity"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
	infraauth "github.com/wheeltrade/backend/internal/infrastructure/auth"
	"github.com/wheeltrade/backend/internal/infrastructure/config"
)

// =============================================================================
// Mock Repositories
// =============================================================================

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

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, dealerID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, dealerID uuid.UUID, role identity.UserRole) ([]identity.User, error) {
	args := m.Called(ctx, dealerID, role)
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

func (m *MockUserRepository) CountForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, dealerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

type MockDealerRepository struct {
	mock.Mock
}

func (m *MockDealerRepository) FindByID(ctx context.Context, id uuid.UUID) (*dealer.Dealer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dealer.Dealer), args.Error(1)
}

func (m *MockDealerRepository) FindByCode(ctx context.Context, code string) (*dealer.Dealer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dealer.Dealer), args.Error(1)
}

func (m *MockDealerRepository) FindByGSTIN(ctx context.Context, gstin valueobject.GSTIN) (*dealer.Dealer, error) {
	args := m.Called(ctx, gstin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dealer.Dealer), args.Error(1)
}

func (m *MockDealerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]dealer.Dealer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]dealer.Dealer), args.Error(1)
}

func (m *MockDealerRepository) FindByStatus(ctx context.Context, status dealer.DealerStatus, filter shared.Filter) ([]dealer.Dealer, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]dealer.Dealer), args.Error(1)
}

func (m *MockDealerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]dealer.Dealer, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]dealer.Dealer), args.Error(1)
}

func (m *MockDealerRepository) Save(ctx context.Context, d *dealer.Dealer) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDealerRepository) SaveWithLock(ctx context.Context, d *dealer.Dealer) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDealerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDealerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealerRepository) CountByStatus(ctx context.Context, status dealer.DealerStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockDealerRepository) ExistsByGSTIN(ctx context.Context, gstin valueobject.GSTIN) (bool, error) {
	args := m.Called(ctx, gstin)
	return args.Bool(0), args.Error(1)
}

// =============================================================================
// Fixtures
// =============================================================================

func newTestJWTService(t *testing.T) *infraauth.JWTService {
	t.Helper()
	return infraauth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "wheeltrade-test",
		MaxRefreshCount:        10,
	})
}

func newTestAuthService(t *testing.T) (*AuthService, *MockUserRepository, *MockDealerRepository) {
	t.Helper()
	userRepo := new(MockUserRepository)
	dealerRepo := new(MockDealerRepository)
	svc := NewAuthService(userRepo, dealerRepo, newTestJWTService(t), infraauth.NewInMemoryTokenBlacklist())
	return svc, userRepo, dealerRepo
}

func newActiveUser(t *testing.T, dealerID uuid.UUID, password string) *identity.User {
	t.Helper()
	user, err := identity.NewOwnerUser(dealerID, "ramesh", password)
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func newActiveDealer(t *testing.T) *dealer.Dealer {
	t.Helper()
	gstin, err := valueobject.NewGSTIN("27AAPFU0939F1ZV")
	require.NoError(t, err)
	pan, err := valueobject.NewPAN("AAPFU0939F")
	require.NoError(t, err)
	d, err := dealer.NewDealer("DLR001", "Sharma Motors Pvt Ltd", gstin, pan)
	require.NoError(t, err)
	require.NoError(t, d.Activate())
	d.ClearDomainEvents()
	return d
}

// =============================================================================
// Tests
// =============================================================================

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login issues token pair", func(t *testing.T) {
		svc, userRepo, dealerRepo := newTestAuthService(t)
		d := newActiveDealer(t)
		user := newActiveUser(t, d.ID, "Str0ngPass!word")

		userRepo.On("FindByUsername", ctx, "ramesh").Return(user, nil)
		dealerRepo.On("FindByID", ctx, d.ID).Return(d, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		resp, err := svc.Login(ctx, LoginRequest{Username: "ramesh", Password: "Str0ngPass!word", ClientIP: "10.0.0.5"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "10.0.0.5", user.LastLoginIP)
		userRepo.AssertExpectations(t)
	})

	t.Run("unknown username returns invalid credentials", func(t *testing.T) {
		svc, userRepo, _ := newTestAuthService(t)
		userRepo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginRequest{Username: "ghost", Password: "whatever123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password records failure", func(t *testing.T) {
		svc, userRepo, _ := newTestAuthService(t)
		user := newActiveUser(t, uuid.New(), "Str0ngPass!word")

		userRepo.On("FindByUsername", ctx, "ramesh").Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		_, err := svc.Login(ctx, LoginRequest{Username: "ramesh", Password: "wrong-password"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, 1, user.FailedAttempts)
	})

	t.Run("fifth failure locks the account", func(t *testing.T) {
		svc, userRepo, _ := newTestAuthService(t)
		user := newActiveUser(t, uuid.New(), "Str0ngPass!word")
		user.FailedAttempts = maxLoginAttempts - 1

		userRepo.On("FindByUsername", ctx, "ramesh").Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		_, err := svc.Login(ctx, LoginRequest{Username: "ramesh", Password: "wrong-password"})
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ACCOUNT_LOCKED", derr.Code)
		assert.True(t, user.IsLocked())
	})

	t.Run("deactivated user rejected", func(t *testing.T) {
		svc, userRepo, _ := newTestAuthService(t)
		user := newActiveUser(t, uuid.New(), "Str0ngPass!word")
		require.NoError(t, user.Deactivate())

		userRepo.On("FindByUsername", ctx, "ramesh").Return(user, nil)

		_, err := svc.Login(ctx, LoginRequest{Username: "ramesh", Password: "Str0ngPass!word"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ACCOUNT_DISABLED", derr.Code)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("valid refresh token issues new pair", func(t *testing.T) {
		svc, userRepo, dealerRepo := newTestAuthService(t)
		d := newActiveDealer(t)
		user := newActiveUser(t, d.ID, "Str0ngPass!word")

		userRepo.On("FindByUsername", ctx, "ramesh").Return(user, nil)
		dealerRepo.On("FindByID", ctx, d.ID).Return(d, nil)
		userRepo.On("Save", ctx, user).Return(nil)
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		login, err := svc.Login(ctx, LoginRequest{Username: "ramesh", Password: "Str0ngPass!word"})
		require.NoError(t, err)

		resp, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEqual(t, login.RefreshToken, resp.RefreshToken)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		_, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: "not-a-token"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_TOKEN", derr.Code)
	})
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, dealerRepo := newTestAuthService(t)
	d := newActiveDealer(t)
	user := newActiveUser(t, d.ID, "Str0ngPass!word")

	userRepo.On("FindByUsername", ctx, "ramesh").Return(user, nil)
	dealerRepo.On("FindByID", ctx, d.ID).Return(d, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	login, err := svc.Login(ctx, LoginRequest{Username: "ramesh", Password: "Str0ngPass!word"})
	require.NoError(t, err)

	// Token is accepted before logout
	_, err = svc.CheckAccessToken(ctx, login.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.AccessToken))

	_, err = svc.CheckAccessToken(ctx, login.AccessToken)
	assert.ErrorIs(t, err, infraauth.ErrTokenBlacklisted)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestAuthService(t)
	user := newActiveUser(t, uuid.New(), "Str0ngPass!word")

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	t.Run("wrong old password rejected", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
			OldPassword: "nope",
			NewPassword: "NewPass!word99",
		})
		require.Error(t, err)
	})

	t.Run("correct old password succeeds", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
			OldPassword: "Str0ngPass!word",
			NewPassword: "NewPass!word99",
		})
		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("NewPass!word99"))
	})
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestAuthService(t)
	user := newActiveUser(t, uuid.New(), "Str0ngPass!word")
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	resp, err := svc.GetCurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ramesh", resp.Username)
	assert.Equal(t, "owner", resp.Role)
}
