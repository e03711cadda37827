package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wheeltrade/backend/internal/domain/catalog"
	"github.com/wheeltrade/backend/internal/domain/dealer"
	"github.com/wheeltrade/backend/internal/domain/pricing"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

type fakeScheduleStore struct {
	schedule *pricing.MarginSchedule
	storeErr error
}

func (f *fakeScheduleStore) Load(ctx context.Context) (pricing.MarginSchedule, error) {
	if f.schedule == nil {
		return pricing.MarginSchedule{}, ErrScheduleNotStored
	}
	return *f.schedule, nil
}

func (f *fakeScheduleStore) Store(ctx context.Context, schedule pricing.MarginSchedule) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.schedule = &schedule
	return nil
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

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByIDForDealer(ctx context.Context, dealerID, id uuid.UUID) (*catalog.Vehicle, error) {
	args := m.Called(ctx, dealerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByVIN(ctx context.Context, vin valueobject.VIN) (*catalog.Vehicle, error) {
	args := m.Called(ctx, vin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Vehicle, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindAllForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]catalog.Vehicle, error) {
	args := m.Called(ctx, dealerID, filter)
	return args.Get(0).([]catalog.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindListed(ctx context.Context, excludeDealerID *uuid.UUID, filter shared.Filter) ([]catalog.Vehicle, error) {
	args := m.Called(ctx, excludeDealerID, filter)
	return args.Get(0).([]catalog.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByStatus(ctx context.Context, dealerID uuid.UUID, status catalog.VehicleStatus, filter shared.Filter) ([]catalog.Vehicle, error) {
	args := m.Called(ctx, dealerID, status, filter)
	return args.Get(0).([]catalog.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Save(ctx context.Context, vehicle *catalog.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) SaveWithLock(ctx context.Context, vehicle *catalog.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVehicleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVehicleRepository) CountForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, dealerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVehicleRepository) CountByStatus(ctx context.Context, dealerID uuid.UUID, status catalog.VehicleStatus) (int64, error) {
	args := m.Called(ctx, dealerID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVehicleRepository) ExistsByVIN(ctx context.Context, vin valueobject.VIN) (bool, error) {
	args := m.Called(ctx, vin)
	return args.Bool(0), args.Error(1)
}

func newPolicyDealer(t *testing.T, minPct, targetPct int64) *dealer.Dealer {
	t.Helper()
	gstin, err := valueobject.NewGSTIN("27AAPFU0939F1ZV")
	require.NoError(t, err)
	pan, err := valueobject.NewPAN("AAPFU0939F")
	require.NoError(t, err)
	d, err := dealer.NewDealer("DLR001", "Sharma Motors Pvt Ltd", gstin, pan)
	require.NoError(t, err)
	require.NoError(t, d.SetMarginPolicy(decimal.NewFromInt(minPct), decimal.NewFromInt(targetPct)))
	d.ClearDomainEvents()
	return d
}

func TestPricingService_GetSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when nothing stored", func(t *testing.T) {
		svc := NewPricingService(new(MockDealerRepository), new(MockVehicleRepository), &fakeScheduleStore{}, zaptest.NewLogger(t))

		resp, err := svc.GetSchedule(ctx)
		require.NoError(t, err)
		require.Len(t, resp.Brackets, 3)
		assert.True(t, resp.Brackets[0].MarginPct.Equal(decimal.NewFromInt(10)))
		assert.Nil(t, resp.Brackets[2].UpTo)
	})

	t.Run("stored schedule wins over defaults", func(t *testing.T) {
		fiveL := decimal.NewFromInt(500000)
		stored, err := pricing.NewMarginSchedule([]pricing.MarginBracket{
			{UpTo: &fiveL, MarginPct: decimal.NewFromInt(12)},
			{UpTo: nil, MarginPct: decimal.NewFromInt(6)},
		})
		require.NoError(t, err)

		svc := NewPricingService(new(MockDealerRepository), new(MockVehicleRepository),
			&fakeScheduleStore{schedule: &stored}, zaptest.NewLogger(t))

		resp, err := svc.GetSchedule(ctx)
		require.NoError(t, err)
		require.Len(t, resp.Brackets, 2)
		assert.True(t, resp.Brackets[0].MarginPct.Equal(decimal.NewFromInt(12)))
	})
}

func TestPricingService_ReplaceSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and activates the new schedule", func(t *testing.T) {
		store := &fakeScheduleStore{}
		svc := NewPricingService(new(MockDealerRepository), new(MockVehicleRepository), store, zaptest.NewLogger(t))

		twoL := decimal.NewFromInt(200000)
		resp, err := svc.ReplaceSchedule(ctx, ReplaceScheduleRequest{
			Brackets: []MarginBracketRequest{
				{UpTo: nil, MarginPct: decimal.NewFromInt(4)},
				{UpTo: &twoL, MarginPct: decimal.NewFromInt(9)},
			},
		})
		require.NoError(t, err)
		require.Len(t, resp.Brackets, 2)
		// Bounded brackets sort first
		assert.True(t, resp.Brackets[0].MarginPct.Equal(decimal.NewFromInt(9)))
		require.NotNil(t, store.schedule)
	})

	t.Run("two open-ended brackets rejected", func(t *testing.T) {
		svc := NewPricingService(new(MockDealerRepository), new(MockVehicleRepository), &fakeScheduleStore{}, zaptest.NewLogger(t))

		_, err := svc.ReplaceSchedule(ctx, ReplaceScheduleRequest{
			Brackets: []MarginBracketRequest{
				{UpTo: nil, MarginPct: decimal.NewFromInt(4)},
				{UpTo: nil, MarginPct: decimal.NewFromInt(9)},
			},
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_SCHEDULE", derr.Code)
	})
}

func TestPricingService_QuoteForCost(t *testing.T) {
	ctx := context.Background()
	dealerRepo := new(MockDealerRepository)
	svc := NewPricingService(dealerRepo, new(MockVehicleRepository), &fakeScheduleStore{}, zaptest.NewLogger(t))

	t.Run("bracket percentage applies", func(t *testing.T) {
		d := newPolicyDealer(t, 3, 5)
		dealerRepo.On("FindByID", ctx, d.ID).Return(d, nil)

		// 2.5 lakh falls in the 10% bracket, above the 5% target
		resp, err := svc.QuoteForCost(ctx, d.ID, QuoteRequest{AcquisitionCost: decimal.NewFromInt(250000)})
		require.NoError(t, err)
		assert.True(t, resp.MarginPct.Equal(decimal.NewFromInt(10)))
		assert.True(t, resp.SuggestedPrice.Equal(decimal.NewFromInt(275000)))
		assert.True(t, resp.FloorPrice.Equal(decimal.NewFromInt(257500)))
	})

	t.Run("dealer target overrides a lower bracket", func(t *testing.T) {
		d := newPolicyDealer(t, 5, 9)
		dealerRepo.On("FindByID", ctx, d.ID).Return(d, nil)

		// 20 lakh falls in the 5% bracket; the 9% target wins
		resp, err := svc.QuoteForCost(ctx, d.ID, QuoteRequest{AcquisitionCost: decimal.NewFromInt(2000000)})
		require.NoError(t, err)
		assert.True(t, resp.MarginPct.Equal(decimal.NewFromInt(9)))
		assert.True(t, resp.SuggestedPrice.Equal(decimal.NewFromInt(2180000)))
	})
}

func TestPricingService_QuoteForVehicle(t *testing.T) {
	ctx := context.Background()
	dealerRepo := new(MockDealerRepository)
	vehicleRepo := new(MockVehicleRepository)
	svc := NewPricingService(dealerRepo, vehicleRepo, &fakeScheduleStore{}, zaptest.NewLogger(t))

	d := newPolicyDealer(t, 3, 5)
	vin, err := valueobject.NewVIN("MA3EJKD1S00123456")
	require.NoError(t, err)
	v, err := catalog.NewVehicle(d.ID, vin, "Tata", "Nexon", 2023)
	require.NoError(t, err)

	t.Run("cost not set rejected", func(t *testing.T) {
		vehicleRepo.On("FindByIDForDealer", ctx, d.ID, v.ID).Return(v, nil).Once()

		_, err := svc.QuoteForVehicle(ctx, d.ID, v.ID)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "COST_NOT_SET", derr.Code)
	})

	t.Run("quotes from the recorded cost", func(t *testing.T) {
		require.NoError(t, v.SetPricing(
			decimal.NewFromInt(800000),
			decimal.NewFromInt(830000),
			decimal.NewFromInt(870000),
		))
		vehicleRepo.On("FindByIDForDealer", ctx, d.ID, v.ID).Return(v, nil).Once()
		dealerRepo.On("FindByID", ctx, d.ID).Return(d, nil)

		resp, err := svc.QuoteForVehicle(ctx, d.ID, v.ID)
		require.NoError(t, err)
		// 8 lakh falls in the 7% bracket
		assert.True(t, resp.MarginPct.Equal(decimal.NewFromInt(7)))
		assert.True(t, resp.SuggestedPrice.Equal(decimal.NewFromInt(856000)))
	})
}
