package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/billing"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/infrastructure/telemetry"
)

// collectOrderExpiry bounds how long the hosted checkout link stays payable
const collectOrderExpiry = 24 * time.Hour

// EscrowService handles escrow payment lifecycle operations
type EscrowService struct {
	paymentRepo    billing.EscrowPaymentRepository
	dealRepo       deal.DealRepository
	gateway        billing.PaymentGateway
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewEscrowService creates a new escrow service
func NewEscrowService(paymentRepo billing.EscrowPaymentRepository, dealRepo deal.DealRepository, gateway billing.PaymentGateway) *EscrowService {
	return &EscrowService{
		paymentRepo: paymentRepo,
		dealRepo:    dealRepo,
		gateway:     gateway,
		logger:      zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *EscrowService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger
func (s *EscrowService) SetLogger(logger *zap.Logger) {
	s.logger = logger
}

// InitiateEscrow opens a gateway collect order for an accepted deal.
// Only the buyer may fund the escrow.
func (s *EscrowService) InitiateEscrow(ctx context.Context, dealerID uuid.UUID, req InitiateEscrowRequest) (*InitiateEscrowResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "escrow", "initiate")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrDealID, req.DealID.String(),
		telemetry.SpanAttrDealerID, dealerID.String(),
	)

	d, err := s.dealRepo.FindByID(ctx, req.DealID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if d.BuyerDealerID != dealerID {
		return nil, shared.ErrForbidden
	}
	if d.Status != deal.DealStatusAccepted {
		return nil, shared.NewDomainError("DEAL_NOT_ACCEPTED", "Escrow can only be funded for an accepted deal")
	}

	existing, err := s.paymentRepo.FindByDeal(ctx, req.DealID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	for i := range existing {
		if existing[i].Status != billing.PaymentStatusFailed {
			return nil, shared.NewDomainError("PAYMENT_ALREADY_OPEN", "An escrow payment already exists for this deal")
		}
	}

	paymentNumber, err := s.paymentRepo.GeneratePaymentNumber(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	order, err := s.gateway.CreateOrder(ctx, &billing.CreateOrderRequest{
		PaymentNumber: paymentNumber,
		Amount:        d.AgreedAmount,
		Currency:      "INR",
		Description:   fmt.Sprintf("Escrow for deal %s", d.DealNumber),
		ExpireAt:      time.Now().Add(collectOrderExpiry),
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	payment, err := billing.NewEscrowPayment(paymentNumber, d.ID, d.BuyerDealerID, d.SellerDealerID, d.AgreedAmount, order.GatewayOrderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "escrow_initiated",
		telemetry.SpanAttrPaymentNumber, payment.PaymentNumber,
		telemetry.SpanAttrAmount, payment.Amount.String(),
	)

	s.logger.Info("escrow initiated",
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("deal_number", d.DealNumber),
		zap.String("amount", payment.Amount.String()))

	s.publishEvents(ctx, payment)

	return &InitiateEscrowResponse{
		PaymentResponse: *ToPaymentResponse(payment),
		PaymentLink:     order.PaymentLink,
	}, nil
}

// HandleWebhook verifies and applies a gateway callback. Duplicate
// deliveries of an already applied event are acknowledged without change.
func (s *EscrowService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "escrow", "webhook")
	defer span.End()

	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	telemetry.SetAttributes(span, "event_type", event.EventType)

	payment, err := s.paymentRepo.FindByGatewayOrderID(ctx, event.GatewayOrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return billing.ErrGatewayOrderNotFound
		}
		return err
	}

	switch event.EventType {
	case "payment.captured":
		// Any capture delivered after the payment left initiated is a
		// replay and must be acknowledged, whatever its txn id.
		if payment.Status != billing.PaymentStatusInitiated {
			if payment.GatewayTxnID != event.GatewayTxnID {
				s.logger.Warn("captured webhook replayed with a different transaction id",
					zap.String("payment_number", payment.PaymentNumber),
					zap.String("held_txn_id", payment.GatewayTxnID),
					zap.String("webhook_txn_id", event.GatewayTxnID))
			}
			return nil
		}
		if !payment.Amount.Equal(event.Amount) {
			return shared.NewDomainError("AMOUNT_MISMATCH", "Captured amount does not match the escrow amount")
		}
		if err := payment.MarkHeld(event.GatewayTxnID); err != nil {
			return err
		}
	case "payment.failed":
		if payment.Status == billing.PaymentStatusFailed {
			return nil
		}
		if err := payment.MarkFailed(event.FailureReason); err != nil {
			return err
		}
	case "refund.processed":
		// Refunds are applied when the deal closes; the callback only confirms.
		if payment.Status == billing.PaymentStatusRefunded {
			return nil
		}
		if err := payment.Refund(); err != nil {
			return err
		}
	default:
		s.logger.Debug("ignoring gateway webhook", zap.String("event_type", event.EventType))
		return nil
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPaymentNumber, payment.PaymentNumber,
		"payment_status", string(payment.Status),
	)

	s.logger.Info("gateway webhook applied",
		zap.String("event_type", event.EventType),
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("status", string(payment.Status)))

	s.publishEvents(ctx, payment)

	return nil
}

// Get returns a payment visible to either deal party
func (s *EscrowService) Get(ctx context.Context, dealerID, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.DealerID != dealerID && payment.SellerDealerID != dealerID {
		return nil, shared.ErrForbidden
	}
	return ToPaymentResponse(payment), nil
}

// GetByDeal returns the payments raised for a deal
func (s *EscrowService) GetByDeal(ctx context.Context, dealerID, dealID uuid.UUID) ([]PaymentResponse, error) {
	d, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if d.BuyerDealerID != dealerID && d.SellerDealerID != dealerID {
		return nil, shared.ErrForbidden
	}

	payments, err := s.paymentRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

// List returns payments where the dealer is buyer or seller
func (s *EscrowService) List(ctx context.Context, dealerID uuid.UUID, req PaymentListFilter) ([]PaymentResponse, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if req.Status != "" {
		filter.Filters = map[string]interface{}{"status": req.Status}
	}

	payments, err := s.paymentRepo.FindForDealer(ctx, dealerID, filter)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

func (s *EscrowService) publishEvents(ctx context.Context, payment *billing.EscrowPayment) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range payment.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	payment.ClearDomainEvents()
}
