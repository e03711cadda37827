package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/billing"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// SettlementHandler settles escrow when a deal ends. Completion releases
// the held funds to the seller; a cancelled deal refunds the buyer.
type SettlementHandler struct {
	paymentRepo    billing.EscrowPaymentRepository
	gateway        billing.PaymentGateway
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(paymentRepo billing.EscrowPaymentRepository, gateway billing.PaymentGateway, logger *zap.Logger) *SettlementHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementHandler{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (h *SettlementHandler) SetEventPublisher(publisher shared.EventPublisher) {
	h.eventPublisher = publisher
}

// EventTypes returns the event types this handler is interested in
func (h *SettlementHandler) EventTypes() []string {
	return []string{
		deal.EventTypeDealCompleted,
		deal.EventTypeDealClosed,
	}
}

// Handle processes deal lifecycle events
func (h *SettlementHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *deal.DealCompletedEvent:
		if e.PaymentID == nil {
			return fmt.Errorf("deal %s completed without a payment reference", e.DealNumber)
		}
		return h.release(ctx, *e.PaymentID, e.DealNumber)
	case *deal.DealClosedEvent:
		if e.PaymentID == nil {
			return nil // Closed before escrow, nothing to refund
		}
		return h.refund(ctx, *e.PaymentID, e.DealNumber)
	}
	return nil
}

func (h *SettlementHandler) release(ctx context.Context, paymentID uuid.UUID, dealNumber string) error {
	payment, err := h.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return err
	}

	if err := payment.Release(); err != nil {
		return err
	}
	if err := h.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		return err
	}

	h.logger.Info("escrow released to seller",
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("deal_number", dealNumber),
		zap.String("amount", payment.Amount.String()))

	h.publishEvents(ctx, payment)
	return nil
}

func (h *SettlementHandler) refund(ctx context.Context, paymentID uuid.UUID, dealNumber string) error {
	payment, err := h.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if !payment.IsHeld() {
		return nil // Never captured or already settled
	}

	if err := h.gateway.RefundOrder(ctx, payment.GatewayOrderID, payment.Amount); err != nil {
		return fmt.Errorf("refund order %s: %w", payment.GatewayOrderID, err)
	}

	if err := payment.Refund(); err != nil {
		return err
	}
	if err := h.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		return err
	}

	h.logger.Info("escrow refunded to buyer",
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("deal_number", dealNumber),
		zap.String("amount", payment.Amount.String()))

	h.publishEvents(ctx, payment)
	return nil
}

func (h *SettlementHandler) publishEvents(ctx context.Context, payment *billing.EscrowPayment) {
	if h.eventPublisher == nil {
		return
	}
	for _, event := range payment.GetDomainEvents() {
		_ = h.eventPublisher.Publish(ctx, event)
	}
	payment.ClearDomainEvents()
}
