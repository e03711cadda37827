package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/catalog"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// ReservationHandler keeps vehicle availability in sync with deal
// progression. An accepted deal reserves the vehicle, a closed deal
// releases it and a completed deal marks it sold.
type ReservationHandler struct {
	vehicleRepo    catalog.VehicleRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(vehicleRepo catalog.VehicleRepository, logger *zap.Logger) *ReservationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationHandler{
		vehicleRepo: vehicleRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for follow-up events
func (h *ReservationHandler) SetEventPublisher(publisher shared.EventPublisher) {
	h.eventPublisher = publisher
}

// EventTypes returns the deal events this handler reacts to
func (h *ReservationHandler) EventTypes() []string {
	return []string{
		deal.EventTypeDealAccepted,
		deal.EventTypeDealClosed,
		deal.EventTypeDealCompleted,
	}
}

// Handle processes a deal event
func (h *ReservationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *deal.DealAcceptedEvent:
		return h.reserve(ctx, e)
	case *deal.DealClosedEvent:
		return h.release(ctx, e)
	case *deal.DealCompletedEvent:
		return h.markSold(ctx, e)
	}
	return nil
}

func (h *ReservationHandler) reserve(ctx context.Context, e *deal.DealAcceptedEvent) error {
	v, err := h.vehicleRepo.FindByID(ctx, e.VehicleID)
	if err != nil {
		return err
	}

	if err := v.Reserve(e.DealID); err != nil {
		h.logger.Error("failed to reserve vehicle for accepted deal",
			zap.String("vehicle_id", e.VehicleID.String()),
			zap.String("deal_id", e.DealID.String()),
			zap.Error(err))
		return err
	}

	if err := h.vehicleRepo.SaveWithLock(ctx, v); err != nil {
		return err
	}

	h.logger.Info("vehicle reserved",
		zap.String("vehicle_id", v.ID.String()),
		zap.String("deal_number", e.DealNumber))

	h.publishEvents(ctx, v)
	return nil
}

func (h *ReservationHandler) release(ctx context.Context, e *deal.DealClosedEvent) error {
	v, err := h.vehicleRepo.FindByID(ctx, e.VehicleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	// Only the holding deal may free the reservation. A deal rejected
	// before acceptance never reserved anything.
	if v.ReservedByDeal == nil || *v.ReservedByDeal != e.DealID {
		return nil
	}

	if err := v.Release(); err != nil {
		return err
	}

	if err := h.vehicleRepo.SaveWithLock(ctx, v); err != nil {
		return err
	}

	h.logger.Info("vehicle reservation released",
		zap.String("vehicle_id", v.ID.String()),
		zap.String("deal_number", e.DealNumber))

	h.publishEvents(ctx, v)
	return nil
}

func (h *ReservationHandler) markSold(ctx context.Context, e *deal.DealCompletedEvent) error {
	v, err := h.vehicleRepo.FindByID(ctx, e.VehicleID)
	if err != nil {
		return err
	}

	if err := v.MarkSold(e.DealID); err != nil {
		h.logger.Error("failed to mark vehicle sold",
			zap.String("vehicle_id", e.VehicleID.String()),
			zap.String("deal_id", e.DealID.String()),
			zap.Error(err))
		return err
	}

	if err := h.vehicleRepo.SaveWithLock(ctx, v); err != nil {
		return err
	}

	h.logger.Info("vehicle sold",
		zap.String("vehicle_id", v.ID.String()),
		zap.String("deal_number", e.DealNumber))

	h.publishEvents(ctx, v)
	return nil
}

func (h *ReservationHandler) publishEvents(ctx context.Context, v *catalog.Vehicle) {
	if h.eventPublisher == nil {
		return
	}
	for _, event := range v.GetDomainEvents() {
		_ = h.eventPublisher.Publish(ctx, event)
	}
	v.ClearDomainEvents()
}
