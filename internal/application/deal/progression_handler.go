package deal

import (
	"context"

	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/billing"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/logistics"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// ProgressionHandler advances accepted deals as the escrow payment and
// the transport order move. A held payment puts the deal in escrow,
// pickup puts it in transit and delivery completes it.
type ProgressionHandler struct {
	dealRepo       deal.DealRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProgressionHandler creates a new progression handler
func NewProgressionHandler(dealRepo deal.DealRepository, logger *zap.Logger) *ProgressionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressionHandler{
		dealRepo: dealRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for follow-up events
func (h *ProgressionHandler) SetEventPublisher(publisher shared.EventPublisher) {
	h.eventPublisher = publisher
}

// EventTypes returns the payment and transport events this handler reacts to
func (h *ProgressionHandler) EventTypes() []string {
	return []string{
		billing.EventTypePaymentStatusChanged,
		logistics.EventTypeTransportStatusChange,
	}
}

// Handle processes a payment or transport event
func (h *ProgressionHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *billing.PaymentStatusChangedEvent:
		if e.NewStatus == billing.PaymentStatusHeld {
			return h.moveToEscrow(ctx, e)
		}
	case *logistics.TransportStatusChangedEvent:
		switch e.NewStatus {
		case logistics.TransportStatusPickedUp:
			return h.moveToTransit(ctx, e)
		case logistics.TransportStatusDelivered:
			return h.complete(ctx, e)
		}
	}
	return nil
}

func (h *ProgressionHandler) moveToEscrow(ctx context.Context, e *billing.PaymentStatusChangedEvent) error {
	d, err := h.dealRepo.FindByID(ctx, e.DealID)
	if err != nil {
		return err
	}

	if err := d.MarkInEscrow(e.PaymentID); err != nil {
		h.logger.Error("failed to move deal into escrow",
			zap.String("deal_id", e.DealID.String()),
			zap.String("payment_number", e.PaymentNumber),
			zap.Error(err))
		return err
	}

	if err := h.dealRepo.SaveWithLock(ctx, d); err != nil {
		return err
	}

	h.logger.Info("deal in escrow",
		zap.String("deal_number", d.DealNumber),
		zap.String("payment_number", e.PaymentNumber))

	h.publishEvents(ctx, d)
	return nil
}

func (h *ProgressionHandler) moveToTransit(ctx context.Context, e *logistics.TransportStatusChangedEvent) error {
	d, err := h.dealRepo.FindByID(ctx, e.DealID)
	if err != nil {
		return err
	}

	if err := d.MarkInTransit(e.TransportOrderID); err != nil {
		h.logger.Error("failed to move deal into transit",
			zap.String("deal_id", e.DealID.String()),
			zap.String("order_number", e.OrderNumber),
			zap.Error(err))
		return err
	}

	if err := h.dealRepo.SaveWithLock(ctx, d); err != nil {
		return err
	}

	h.logger.Info("deal in transit",
		zap.String("deal_number", d.DealNumber),
		zap.String("order_number", e.OrderNumber))

	h.publishEvents(ctx, d)
	return nil
}

func (h *ProgressionHandler) complete(ctx context.Context, e *logistics.TransportStatusChangedEvent) error {
	d, err := h.dealRepo.FindByID(ctx, e.DealID)
	if err != nil {
		return err
	}

	if err := d.Complete(); err != nil {
		h.logger.Error("failed to complete deal on delivery",
			zap.String("deal_id", e.DealID.String()),
			zap.String("order_number", e.OrderNumber),
			zap.Error(err))
		return err
	}

	if err := h.dealRepo.SaveWithLock(ctx, d); err != nil {
		return err
	}

	h.logger.Info("deal completed",
		zap.String("deal_number", d.DealNumber),
		zap.String("agreed_amount", d.AgreedAmount.String()))

	h.publishEvents(ctx, d)
	return nil
}

func (h *ProgressionHandler) publishEvents(ctx context.Context, d *deal.Deal) {
	if h.eventPublisher == nil {
		return
	}
	for _, event := range d.GetDomainEvents() {
		_ = h.eventPublisher.Publish(ctx, event)
	}
	d.ClearDomainEvents()
}
