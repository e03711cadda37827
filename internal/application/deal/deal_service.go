package deal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/catalog"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/dealer"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// DefaultMaxOpenPerVehicle caps concurrent open deals on one vehicle
const DefaultMaxOpenPerVehicle = 10

// DealService implements the negotiation use cases
type DealService struct {
	dealRepo          deal.DealRepository
	vehicleRepo       catalog.VehicleRepository
	dealerRepo        dealer.DealerRepository
	eventPublisher    shared.EventPublisher
	maxOpenPerVehicle int
	logger            *zap.Logger
}

// NewDealService creates a new deal application service
func NewDealService(dealRepo deal.DealRepository, vehicleRepo catalog.VehicleRepository, dealerRepo dealer.DealerRepository) *DealService {
	return &DealService{
		dealRepo:          dealRepo,
		vehicleRepo:       vehicleRepo,
		dealerRepo:        dealerRepo,
		maxOpenPerVehicle: DefaultMaxOpenPerVehicle,
		logger:            zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *DealService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMaxOpenPerVehicle overrides the open deal cap per vehicle
func (s *DealService) SetMaxOpenPerVehicle(limit int) {
	if limit > 0 {
		s.maxOpenPerVehicle = limit
	}
}

// SetLogger sets the logger for the service
func (s *DealService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// MakeOffer opens a deal with the buyer's initial offer on a listed vehicle
func (s *DealService) MakeOffer(ctx context.Context, buyerDealerID uuid.UUID, req MakeOfferRequest) (*DealResponse, error) {
	buyer, err := s.dealerRepo.FindByID(ctx, buyerDealerID)
	if err != nil {
		return nil, err
	}
	if !buyer.CanTrade() {
		return nil, shared.ErrDealerSuspended
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.DealerID == buyerDealerID {
		return nil, shared.ErrSelfDealing
	}
	if !vehicle.IsListed() {
		return nil, shared.ErrVehicleUnavailable
	}

	seller, err := s.dealerRepo.FindByID(ctx, vehicle.DealerID)
	if err != nil {
		return nil, err
	}
	if !seller.CanTrade() {
		return nil, shared.ErrVehicleUnavailable
	}

	open, err := s.dealRepo.FindOpenByVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	for i := range open {
		if open[i].BuyerDealerID == buyerDealerID {
			return nil, shared.NewDomainError("DEAL_ALREADY_OPEN", "You already have an open deal on this vehicle")
		}
	}
	if len(open) >= s.maxOpenPerVehicle {
		return nil, shared.NewDomainError("TOO_MANY_OFFERS", "This vehicle has reached its open offer limit")
	}

	dealNumber, err := s.dealRepo.GenerateDealNumber(ctx)
	if err != nil {
		return nil, err
	}

	d, err := deal.NewDeal(dealNumber, req.VehicleID, buyerDealerID, vehicle.DealerID, req.Amount, req.Message)
	if err != nil {
		return nil, err
	}

	if err := s.dealRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	return ToDealResponse(d, buyerDealerID, true), nil
}

// Counter records a counter-offer from the responding party
func (s *DealService) Counter(ctx context.Context, dealerID, dealID uuid.UUID, req CounterOfferRequest) (*DealResponse, error) {
	d, err := s.partyDeal(ctx, dealerID, dealID)
	if err != nil {
		return nil, err
	}

	if err := d.Counter(dealerID, req.Amount, req.Message); err != nil {
		return nil, err
	}

	if err := s.dealRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	return ToDealResponse(d, dealerID, true), nil
}

// Accept accepts the proposal currently on the table. The vehicle must
// still be open to offers; the reservation follows from the event.
func (s *DealService) Accept(ctx context.Context, dealerID, dealID uuid.UUID) (*DealResponse, error) {
	d, err := s.partyDeal(ctx, dealerID, dealID)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, d.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.IsListed() {
		return nil, shared.ErrVehicleUnavailable
	}

	if err := d.Accept(dealerID); err != nil {
		return nil, err
	}

	if err := s.dealRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("deal accepted",
		zap.String("deal_number", d.DealNumber),
		zap.String("agreed_amount", d.AgreedAmount.String()))

	s.publishEvents(ctx, d)

	return ToDealResponse(d, dealerID, true), nil
}

// Reject declines the proposal currently on the table
func (s *DealService) Reject(ctx context.Context, dealerID, dealID uuid.UUID, req RejectDealRequest) (*DealResponse, error) {
	d, err := s.partyDeal(ctx, dealerID, dealID)
	if err != nil {
		return nil, err
	}

	if err := d.Reject(dealerID, req.Reason); err != nil {
		return nil, err
	}

	if err := s.dealRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	return ToDealResponse(d, dealerID, true), nil
}

// Cancel withdraws the deal. Downstream handlers release the vehicle
// reservation and refund the escrow payment when one is held.
func (s *DealService) Cancel(ctx context.Context, dealerID, dealID uuid.UUID, req CancelDealRequest) (*DealResponse, error) {
	d, err := s.partyDeal(ctx, dealerID, dealID)
	if err != nil {
		return nil, err
	}

	if err := d.Cancel(dealerID, req.Reason); err != nil {
		return nil, err
	}

	if err := s.dealRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	return ToDealResponse(d, dealerID, true), nil
}

// Get returns a deal with its negotiation history. Only the two parties
// may read a deal.
func (s *DealService) Get(ctx context.Context, dealerID, dealID uuid.UUID) (*DealResponse, error) {
	d, err := s.partyDeal(ctx, dealerID, dealID)
	if err != nil {
		return nil, err
	}
	return ToDealResponse(d, dealerID, true), nil
}

// List returns the dealer's deals, optionally narrowed by status or role
func (s *DealService) List(ctx context.Context, dealerID uuid.UUID, req DealListFilter) ([]DealResponse, int64, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "updated_at"
		filter.OrderDir = "desc"
	}
	if req.Role != "" {
		filter.Filters["role"] = req.Role
	}

	var (
		deals []deal.Deal
		err   error
	)
	if req.Status != "" {
		deals, err = s.dealRepo.FindByStatus(ctx, dealerID, deal.DealStatus(req.Status), filter)
	} else {
		deals, err = s.dealRepo.FindForDealer(ctx, dealerID, filter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.dealRepo.CountForDealer(ctx, dealerID)
	if err != nil {
		return nil, 0, err
	}

	return ToDealResponses(deals, dealerID), total, nil
}

// ListForVehicle returns the open deals on one of the dealer's vehicles
func (s *DealService) ListForVehicle(ctx context.Context, dealerID, vehicleID uuid.UUID) ([]DealResponse, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.DealerID != dealerID {
		return nil, shared.ErrForbidden
	}

	deals, err := s.dealRepo.FindOpenByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return ToDealResponses(deals, dealerID), nil
}

// GetSummary counts the dealer's deals by progression stage
func (s *DealService) GetSummary(ctx context.Context, dealerID uuid.UUID) (*DealSummaryResponse, error) {
	summary := &DealSummaryResponse{}
	buckets := []struct {
		status deal.DealStatus
		target *int64
	}{
		{deal.DealStatusOffer, &summary.Open},
		{deal.DealStatusNegotiating, &summary.Open},
		{deal.DealStatusAccepted, &summary.Accepted},
		{deal.DealStatusInEscrow, &summary.InEscrow},
		{deal.DealStatusInTransit, &summary.InTransit},
		{deal.DealStatusCompleted, &summary.Completed},
		{deal.DealStatusRejected, &summary.Closed},
		{deal.DealStatusCancelled, &summary.Closed},
		{deal.DealStatusExpired, &summary.Closed},
	}
	for _, b := range buckets {
		n, err := s.dealRepo.CountByStatus(ctx, dealerID, b.status)
		if err != nil {
			return nil, err
		}
		*b.target += n
		summary.Total += n
	}
	return summary, nil
}

// ExpireLapsedDeals lapses open offers whose deadline has passed.
// Invoked by the expiry sweeper; returns the number of deals expired.
func (s *DealService) ExpireLapsedDeals(ctx context.Context, limit int) (int, error) {
	now := time.Now()
	deals, err := s.dealRepo.FindExpired(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range deals {
		d := &deals[i]
		if err := d.Expire(now); err != nil {
			continue
		}
		if err := s.dealRepo.SaveWithLock(ctx, d); err != nil {
			s.logger.Warn("failed to persist expired deal",
				zap.String("deal_number", d.DealNumber),
				zap.Error(err))
			continue
		}
		s.publishEvents(ctx, d)
		expired++
	}
	return expired, nil
}

func (s *DealService) partyDeal(ctx context.Context, dealerID, dealID uuid.UUID) (*deal.Deal, error) {
	d, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if d.BuyerDealerID != dealerID && d.SellerDealerID != dealerID {
		return nil, shared.ErrForbidden
	}
	return d, nil
}

func (s *DealService) publishEvents(ctx context.Context, d *deal.Deal) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range d.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	d.ClearDomainEvents()
}
