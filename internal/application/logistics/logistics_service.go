package logistics

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/catalog"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/logistics"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// LogisticsService implements carrier administration, route quoting and
// transport order progression
type LogisticsService struct {
	partnerRepo    logistics.TransportPartnerRepository
	orderRepo      logistics.TransportOrderRepository
	dealRepo       deal.DealRepository
	vehicleRepo    catalog.VehicleRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLogisticsService creates a new logistics application service
func NewLogisticsService(partnerRepo logistics.TransportPartnerRepository, orderRepo logistics.TransportOrderRepository,
	dealRepo deal.DealRepository, vehicleRepo catalog.VehicleRepository) *LogisticsService {
	return &LogisticsService{
		partnerRepo: partnerRepo,
		orderRepo:   orderRepo,
		dealRepo:    dealRepo,
		vehicleRepo: vehicleRepo,
		logger:      zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *LogisticsService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger for the service
func (s *LogisticsService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// CreatePartner registers a carrier with its rate card
func (s *LogisticsService) CreatePartner(ctx context.Context, req CreatePartnerRequest) (*PartnerResponse, error) {
	exists, err := s.partnerRepo.ExistsByCode(ctx, strings.ToUpper(req.Code))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Partner with this code already exists")
	}

	p, err := logistics.NewTransportPartner(req.Code, req.Name, req.BaseFee, req.PerKMRate, req.PerKGRate, req.MaxWeightKG)
	if err != nil {
		return nil, err
	}
	p.ContactName = req.ContactName
	p.Phone = req.Phone
	p.Email = req.Email

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	return ToPartnerResponse(p), nil
}

// GetPartner returns a carrier by ID
func (s *LogisticsService) GetPartner(ctx context.Context, partnerID uuid.UUID) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return ToPartnerResponse(p), nil
}

// ListPartners returns all registered carriers
func (s *LogisticsService) ListPartners(ctx context.Context, page, pageSize int) ([]PartnerResponse, error) {
	filter := shared.Filter{Page: page, PageSize: pageSize, OrderBy: "code", OrderDir: "asc"}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 50
	}

	partners, err := s.partnerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToPartnerResponses(partners), nil
}

// UpdatePartnerRates replaces a carrier's rate card
func (s *LogisticsService) UpdatePartnerRates(ctx context.Context, partnerID uuid.UUID, req UpdatePartnerRatesRequest) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateRates(req.BaseFee, req.PerKMRate, req.PerKGRate); err != nil {
		return nil, err
	}

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	return ToPartnerResponse(p), nil
}

// SetPartnerActive toggles whether a carrier takes new bookings
func (s *LogisticsService) SetPartnerActive(ctx context.Context, partnerID uuid.UUID, active bool) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	p.SetActive(active)

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	return ToPartnerResponse(p), nil
}

// QuoteRoutes prices the deal's vehicle movement with every active
// partner that can carry its weight, cheapest first. Only the buying
// dealer may request quotes.
func (s *LogisticsService) QuoteRoutes(ctx context.Context, dealerID uuid.UUID, req QuoteRoutesRequest) ([]RouteQuoteResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, req.DealID)
	if err != nil {
		return nil, err
	}
	if d.BuyerDealerID != dealerID {
		return nil, shared.ErrForbidden
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, d.VehicleID)
	if err != nil {
		return nil, err
	}

	partners, err := s.partnerRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	quotes := make([]RouteQuoteResponse, 0, len(partners))
	for i := range partners {
		p := &partners[i]
		if !p.CanCarry(vehicle.WeightKG) {
			continue
		}
		amount, err := p.QuoteFor(req.DistanceKM, vehicle.WeightKG)
		if err != nil {
			continue
		}
		quotes = append(quotes, RouteQuoteResponse{
			PartnerID:   p.ID,
			PartnerCode: p.Code,
			PartnerName: p.Name,
			DistanceKM:  req.DistanceKM,
			WeightKG:    vehicle.WeightKG,
			Amount:      amount,
		})
	}

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].Amount.LessThan(quotes[j].Amount)
	})

	return quotes, nil
}

// CreateOrder books a vehicle movement for a deal in escrow.
// One active transport order per deal.
func (s *LogisticsService) CreateOrder(ctx context.Context, dealerID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, req.DealID)
	if err != nil {
		return nil, err
	}
	if d.BuyerDealerID != dealerID {
		return nil, shared.ErrForbidden
	}
	if d.Status != deal.DealStatusInEscrow {
		return nil, shared.NewDomainError("DEAL_NOT_IN_ESCROW", "Transport can only be arranged once the payment is in escrow")
	}

	existing, err := s.orderRepo.FindByDeal(ctx, req.DealID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Status != logistics.TransportStatusCancelled {
			return nil, shared.NewDomainError("ORDER_ALREADY_OPEN", "This deal already has an active transport order")
		}
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, d.VehicleID)
	if err != nil {
		return nil, err
	}

	partner, err := s.partnerRepo.FindByID(ctx, req.PartnerID)
	if err != nil {
		return nil, err
	}
	if !partner.Active {
		return nil, shared.NewDomainError("PARTNER_INACTIVE", "Partner is not accepting bookings")
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := logistics.NewTransportOrder(orderNumber, dealerID, req.DealID, d.VehicleID, partner,
		req.PickupCity, req.PickupPincode, req.DropoffCity, req.DropoffPincode, req.DistanceKM, vehicle.WeightKG)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("transport order quoted",
		zap.String("order_number", order.OrderNumber),
		zap.String("partner_code", partner.Code),
		zap.String("quote_amount", order.QuoteAmount.String()))

	s.publishEvents(ctx, order)

	return ToOrderResponse(order), nil
}

// BookOrder confirms the quote with the partner
func (s *LogisticsService) BookOrder(ctx context.Context, dealerID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, dealerID, orderID, (*logistics.TransportOrder).Book)
}

// MarkPickedUp records collection of the vehicle from the seller
func (s *LogisticsService) MarkPickedUp(ctx context.Context, dealerID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, dealerID, orderID, (*logistics.TransportOrder).MarkPickedUp)
}

// MarkInTransit records departure toward the buyer
func (s *LogisticsService) MarkInTransit(ctx context.Context, dealerID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, dealerID, orderID, (*logistics.TransportOrder).MarkInTransit)
}

// MarkDelivered records arrival at the buyer's dealership
func (s *LogisticsService) MarkDelivered(ctx context.Context, dealerID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, dealerID, orderID, (*logistics.TransportOrder).MarkDelivered)
}

// CancelOrder cancels a transport order before pickup
func (s *LogisticsService) CancelOrder(ctx context.Context, dealerID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.ownedOrder(ctx, dealerID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	return ToOrderResponse(order), nil
}

// GetOrder returns a transport order. Both deal parties may read it.
func (s *LogisticsService) GetOrder(ctx context.Context, dealerID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.DealerID != dealerID {
		d, err := s.dealRepo.FindByID(ctx, order.DealID)
		if err != nil {
			return nil, err
		}
		if d.SellerDealerID != dealerID && d.BuyerDealerID != dealerID {
			return nil, shared.ErrForbidden
		}
	}

	return ToOrderResponse(order), nil
}

// GetOrderForDeal returns the transport orders booked for a deal
func (s *LogisticsService) GetOrderForDeal(ctx context.Context, dealerID, dealID uuid.UUID) ([]OrderResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if d.BuyerDealerID != dealerID && d.SellerDealerID != dealerID {
		return nil, shared.ErrForbidden
	}

	orders, err := s.orderRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// ListOrders returns the dealer's transport orders
func (s *LogisticsService) ListOrders(ctx context.Context, dealerID uuid.UUID, req OrderListFilter) ([]OrderResponse, int64, error) {
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
		filter.OrderBy = "created_at"
		filter.OrderDir = "desc"
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	orders, err := s.orderRepo.FindAllForDealer(ctx, dealerID, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForDealer(ctx, dealerID)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

func (s *LogisticsService) transition(ctx context.Context, dealerID, orderID uuid.UUID, step func(*logistics.TransportOrder) error) (*OrderResponse, error) {
	order, err := s.ownedOrder(ctx, dealerID, orderID)
	if err != nil {
		return nil, err
	}

	if err := step(order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	return ToOrderResponse(order), nil
}

func (s *LogisticsService) ownedOrder(ctx context.Context, dealerID, orderID uuid.UUID) (*logistics.TransportOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.DealerID != dealerID {
		return nil, shared.ErrForbidden
	}
	return order, nil
}

func (s *LogisticsService) publishEvents(ctx context.Context, order *logistics.TransportOrder) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
