package pricing

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/catalog"
	"github.com/wheeltrade/backend/internal/domain/dealer"
	"github.com/wheeltrade/backend/internal/domain/pricing"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// ScheduleStore persists the marketplace margin schedule across restarts
type ScheduleStore interface {
	Load(ctx context.Context) (pricing.MarginSchedule, error)
	Store(ctx context.Context, schedule pricing.MarginSchedule) error
}

// ErrScheduleNotStored signals that no schedule has been persisted yet
var ErrScheduleNotStored = errors.New("margin schedule not stored")

// PricingService implements the margin calculator use cases. The active
// schedule is cached in memory and written through to the store.
type PricingService struct {
	dealerRepo  dealer.DealerRepository
	vehicleRepo catalog.VehicleRepository
	store       ScheduleStore
	logger      *zap.Logger

	mu       sync.RWMutex
	schedule pricing.MarginSchedule
}

// NewPricingService creates a pricing service seeded with the stored
// schedule, falling back to the marketplace default
func NewPricingService(dealerRepo dealer.DealerRepository, vehicleRepo catalog.VehicleRepository, store ScheduleStore, logger *zap.Logger) *PricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PricingService{
		dealerRepo:  dealerRepo,
		vehicleRepo: vehicleRepo,
		store:       store,
		logger:      logger,
		schedule:    pricing.DefaultMarginSchedule(),
	}

	if store != nil {
		stored, err := store.Load(context.Background())
		switch {
		case err == nil:
			s.schedule = stored
		case errors.Is(err, ErrScheduleNotStored):
			logger.Info("no stored margin schedule, using defaults")
		default:
			logger.Warn("failed to load margin schedule, using defaults", zap.Error(err))
		}
	}

	return s
}

// GetSchedule returns the active margin schedule
func (s *PricingService) GetSchedule(ctx context.Context) (*ScheduleResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ToScheduleResponse(s.schedule), nil
}

// ReplaceSchedule validates and activates a new margin schedule
func (s *PricingService) ReplaceSchedule(ctx context.Context, req ReplaceScheduleRequest) (*ScheduleResponse, error) {
	brackets := make([]pricing.MarginBracket, len(req.Brackets))
	for i, b := range req.Brackets {
		brackets[i] = pricing.MarginBracket{UpTo: b.UpTo, MarginPct: b.MarginPct}
	}

	schedule, err := pricing.NewMarginSchedule(brackets)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Store(ctx, schedule); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.schedule = schedule
	s.mu.Unlock()

	s.logger.Info("margin schedule replaced", zap.Int("brackets", len(schedule.Brackets)))

	return ToScheduleResponse(schedule), nil
}

// QuoteForCost computes a price suggestion for an arbitrary acquisition
// cost using the requesting dealer's margin policy
func (s *PricingService) QuoteForCost(ctx context.Context, dealerID uuid.UUID, req QuoteRequest) (*QuoteResponse, error) {
	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	quote, err := s.currentSchedule().QuoteFor(req.AcquisitionCost, d.MinMarginPct, d.TargetMargin)
	if err != nil {
		return nil, err
	}
	return ToQuoteResponse(quote), nil
}

// MarginPctFor returns the bracket margin percentage for an amount.
// Used by the document service to print the platform margin on receipts.
func (s *PricingService) MarginPctFor(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.currentSchedule().MarginPctFor(amount), nil
}

// QuoteForVehicle computes a price suggestion for one of the dealer's
// vehicles based on its recorded acquisition cost
func (s *PricingService) QuoteForVehicle(ctx context.Context, dealerID, vehicleID uuid.UUID) (*QuoteResponse, error) {
	v, err := s.vehicleRepo.FindByIDForDealer(ctx, dealerID, vehicleID)
	if err != nil {
		return nil, err
	}
	if v.AcquisitionCost.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("COST_NOT_SET", "Vehicle has no acquisition cost recorded")
	}

	d, err := s.dealerRepo.FindByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	quote, err := s.currentSchedule().QuoteFor(v.AcquisitionCost, d.MinMarginPct, d.TargetMargin)
	if err != nil {
		return nil, err
	}
	return ToQuoteResponse(quote), nil
}

func (s *PricingService) currentSchedule() pricing.MarginSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule
}
