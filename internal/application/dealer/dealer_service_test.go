package dealer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wheeltrade/backend/internal/domain/dealer"
	"github.com/wheeltrade/backend/internal/domain/identity"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

// =============================================================================
// Mock Repositories
// =============================================================================

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

// =============================================================================
// Fixtures
// =============================================================================

func newTestDealer(t *testing.T) *dealer.Dealer {
	t.Helper()
	gstin, err := valueobject.NewGSTIN("27AAPFU0939F1ZV")
	require.NoError(t, err)
	pan, err := valueobject.NewPAN("AAPFU0939F")
	require.NoError(t, err)
	d, err := dealer.NewDealer("DLR001", "Sharma Motors Pvt Ltd", gstin, pan)
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

func registerRequest() RegisterDealerRequest {
	return RegisterDealerRequest{
		Code:          "DLR001",
		BusinessName:  "Sharma Motors Pvt Ltd",
		GSTIN:         "27AAPFU0939F1ZV",
		PAN:           "AAPFU0939F",
		City:          "Pune",
		State:         "Maharashtra",
		OwnerUsername: "ramesh",
		OwnerPassword: "Str0ngPass!word",
	}
}

// =============================================================================
// Tests
// =============================================================================

func TestDealerService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending dealer with owner login", func(t *testing.T) {
		dealerRepo := new(MockDealerRepository)
		userRepo := new(MockUserRepository)
		svc := NewDealerService(dealerRepo, userRepo)

		dealerRepo.On("ExistsByCode", ctx, "DLR001").Return(false, nil)
		dealerRepo.On("ExistsByGSTIN", ctx, mock.Anything).Return(false, nil)
		userRepo.On("ExistsByUsername", ctx, "ramesh").Return(false, nil)
		dealerRepo.On("Save", ctx, mock.AnythingOfType("*dealer.Dealer")).Return(nil)
		userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Register(ctx, registerRequest())
		require.NoError(t, err)
		assert.Equal(t, "DLR001", resp.Code)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "27", resp.StateCode)

		userRepo.AssertCalled(t, "Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Role == identity.RoleOwner && u.Username == "ramesh"
		}))
	})

	t.Run("duplicate code rejected", func(t *testing.T) {
		dealerRepo := new(MockDealerRepository)
		userRepo := new(MockUserRepository)
		svc := NewDealerService(dealerRepo, userRepo)

		dealerRepo.On("ExistsByCode", ctx, "DLR001").Return(true, nil)

		_, err := svc.Register(ctx, registerRequest())
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ALREADY_EXISTS", derr.Code)
	})

	t.Run("PAN not embedded in GSTIN rejected", func(t *testing.T) {
		dealerRepo := new(MockDealerRepository)
		userRepo := new(MockUserRepository)
		svc := NewDealerService(dealerRepo, userRepo)

		dealerRepo.On("ExistsByCode", ctx, "DLR001").Return(false, nil)
		dealerRepo.On("ExistsByGSTIN", ctx, mock.Anything).Return(false, nil)
		userRepo.On("ExistsByUsername", ctx, "ramesh").Return(false, nil)

		req := registerRequest()
		req.PAN = "AABCU9603R" // valid format, different PAN
		_, err := svc.Register(ctx, req)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "PAN_MISMATCH", derr.Code)
	})

	t.Run("malformed GSTIN rejected", func(t *testing.T) {
		svc := NewDealerService(new(MockDealerRepository), new(MockUserRepository))

		req := registerRequest()
		req.GSTIN = "INVALID"
		_, err := svc.Register(ctx, req)
		require.Error(t, err)
	})
}

func TestDealerService_UpdateMarginPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("valid policy saved", func(t *testing.T) {
		dealerRepo := new(MockDealerRepository)
		svc := NewDealerService(dealerRepo, new(MockUserRepository))
		d := newTestDealer(t)

		dealerRepo.On("FindByID", ctx, d.ID).Return(d, nil)
		dealerRepo.On("SaveWithLock", ctx, d).Return(nil)

		resp, err := svc.UpdateMarginPolicy(ctx, d.ID, UpdateMarginPolicyRequest{
			MinMarginPct: decimal.NewFromInt(4),
			TargetMargin: decimal.NewFromInt(8),
		})
		require.NoError(t, err)
		assert.True(t, resp.MinMarginPct.Equal(decimal.NewFromInt(4)))
		assert.True(t, resp.TargetMargin.Equal(decimal.NewFromInt(8)))
	})

	t.Run("minimum above target rejected", func(t *testing.T) {
		dealerRepo := new(MockDealerRepository)
		svc := NewDealerService(dealerRepo, new(MockUserRepository))
		d := newTestDealer(t)

		dealerRepo.On("FindByID", ctx, d.ID).Return(d, nil)

		_, err := svc.UpdateMarginPolicy(ctx, d.ID, UpdateMarginPolicyRequest{
			MinMarginPct: decimal.NewFromInt(9),
			TargetMargin: decimal.NewFromInt(5),
		})
		require.Error(t, err)
		dealerRepo.AssertNotCalled(t, "SaveWithLock", ctx, d)
	})
}

func TestDealerService_UpdateBankAccount(t *testing.T) {
	ctx := context.Background()
	dealerRepo := new(MockDealerRepository)
	svc := NewDealerService(dealerRepo, new(MockUserRepository))
	d := newTestDealer(t)

	dealerRepo.On("FindByID", ctx, d.ID).Return(d, nil)
	dealerRepo.On("SaveWithLock", ctx, d).Return(nil)

	resp, err := svc.UpdateBankAccount(ctx, d.ID, UpdateBankAccountRequest{
		AccountNumber: "001234567890",
		IFSC:          "HDFC0001234",
	})
	require.NoError(t, err)
	assert.Equal(t, "HDFC0001234", resp.BankIFSC)
	assert.Equal(t, "********7890", resp.BankAccount)
}

func TestDealerService_SuspendAndActivate(t *testing.T) {
	ctx := context.Background()
	dealerRepo := new(MockDealerRepository)
	svc := NewDealerService(dealerRepo, new(MockUserRepository))
	d := newTestDealer(t)
	require.NoError(t, d.Activate())
	d.ClearDomainEvents()

	dealerRepo.On("FindByID", ctx, d.ID).Return(d, nil)
	dealerRepo.On("SaveWithLock", ctx, d).Return(nil)

	resp, err := svc.Suspend(ctx, d.ID, SuspendDealerRequest{Reason: "GSTIN verification failed"})
	require.NoError(t, err)
	assert.Equal(t, "suspended", resp.Status)
	assert.Equal(t, "GSTIN verification failed", resp.SuspendReason)

	resp, err = svc.Activate(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
}

func TestDealerService_GetPublicHidesMarginPolicy(t *testing.T) {
	ctx := context.Background()
	dealerRepo := new(MockDealerRepository)
	svc := NewDealerService(dealerRepo, new(MockUserRepository))
	d := newTestDealer(t)
	require.NoError(t, d.SetMarginPolicy(decimal.NewFromInt(5), decimal.NewFromInt(10)))
	require.NoError(t, d.SetBankAccount("001234567890", valueobject.IFSC("HDFC0001234")))

	dealerRepo.On("FindByID", ctx, d.ID).Return(d, nil)

	resp, err := svc.GetPublic(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "DLR001", resp.Code)
	assert.Equal(t, "27", resp.StateCode)
}
