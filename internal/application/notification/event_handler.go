package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/billing"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/logistics"
	"github.com/wheeltrade/backend/internal/domain/notification"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// NotificationHandler fans domain events out into in-app notifications.
// Events that do not carry party IDs are resolved through the deal.
type NotificationHandler struct {
	notificationRepo notification.NotificationRepository
	dealRepo         deal.DealRepository
	logger           *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationRepo notification.NotificationRepository, dealRepo deal.DealRepository, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{
		notificationRepo: notificationRepo,
		dealRepo:         dealRepo,
		logger:           logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *NotificationHandler) EventTypes() []string {
	return []string{
		deal.EventTypeDealOpened,
		deal.EventTypeDealCountered,
		deal.EventTypeDealAccepted,
		deal.EventTypeDealProgressed,
		deal.EventTypeDealCompleted,
		deal.EventTypeDealClosed,
		billing.EventTypePaymentStatusChanged,
		logistics.EventTypeTransportStatusChange,
	}
}

// Handle converts a domain event into notifications for the affected dealers
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *deal.DealOpenedEvent:
		return h.notify(ctx, e.SellerDealerID, notification.TypeOfferReceived,
			"New offer received",
			fmt.Sprintf("Deal %s opened with an offer of %s", e.DealNumber, inr(e.Amount)),
			deal.AggregateTypeDeal, e.DealID)

	case *deal.DealCounteredEvent:
		d, err := h.dealRepo.FindByID(ctx, e.DealID)
		if err != nil {
			return err
		}
		return h.notify(ctx, d.CounterpartyOf(e.ProposedBy), notification.TypeOfferCountered,
			"Counter-offer received",
			fmt.Sprintf("Deal %s countered at %s", e.DealNumber, inr(e.Amount)),
			deal.AggregateTypeDeal, e.DealID)

	case *deal.DealAcceptedEvent:
		recipient := e.BuyerDealerID
		if e.AcceptedBy == e.BuyerDealerID {
			recipient = e.SellerDealerID
		}
		return h.notify(ctx, recipient, notification.TypeDealAccepted,
			"Deal accepted",
			fmt.Sprintf("Deal %s was accepted at %s", e.DealNumber, inr(e.AgreedAmount)),
			deal.AggregateTypeDeal, e.DealID)

	case *deal.DealProgressedEvent:
		return h.notifyParties(ctx, e.DealID, notification.TypeDealProgress,
			"Deal "+e.DealNumber+" progressed",
			fmt.Sprintf("Deal %s moved from %s to %s", e.DealNumber, e.OldStatus, e.NewStatus),
			deal.AggregateTypeDeal, e.DealID, uuid.Nil)

	case *deal.DealCompletedEvent:
		return h.notifyParties(ctx, e.DealID, notification.TypeDealProgress,
			"Deal "+e.DealNumber+" completed",
			fmt.Sprintf("Deal %s completed at %s", e.DealNumber, inr(e.AgreedAmount)),
			deal.AggregateTypeDeal, e.DealID, uuid.Nil)

	case *deal.DealClosedEvent:
		body := fmt.Sprintf("Deal %s is now %s", e.DealNumber, e.NewStatus)
		if e.Reason != "" {
			body += ": " + e.Reason
		}
		// The dealer who closed the deal needs no reminder of it
		return h.notifyParties(ctx, e.DealID, notification.TypeDealClosed,
			"Deal "+e.DealNumber+" closed", body,
			deal.AggregateTypeDeal, e.DealID, e.ActorDealerID())

	case *billing.PaymentStatusChangedEvent:
		return h.notifyParties(ctx, e.DealID, notification.TypePaymentUpdate,
			"Payment "+string(e.NewStatus),
			fmt.Sprintf("Payment %s for %s is now %s", e.PaymentNumber, inr(e.Amount), e.NewStatus),
			billing.AggregateTypeEscrowPayment, e.PaymentID, uuid.Nil)

	case *logistics.TransportStatusChangedEvent:
		return h.notifyParties(ctx, e.DealID, notification.TypeTransport,
			"Transport "+string(e.NewStatus),
			fmt.Sprintf("Transport order %s is now %s", e.OrderNumber, e.NewStatus),
			logistics.AggregateTypeTransportOrder, e.TransportOrderID, uuid.Nil)
	}

	return nil
}

func (h *NotificationHandler) notify(ctx context.Context, dealerID uuid.UUID, nType notification.NotificationType, title, body, refType string, refID uuid.UUID) error {
	n, err := notification.NewNotification(dealerID, nType, title, body)
	if err != nil {
		return err
	}
	n.SetReference(refType, refID)

	if err := h.notificationRepo.Save(ctx, n); err != nil {
		return err
	}

	h.logger.Debug("notification created",
		zap.String("type", string(nType)),
		zap.String("dealer_id", dealerID.String()))
	return nil
}

// notifyParties notifies both deal parties, skipping the actor
func (h *NotificationHandler) notifyParties(ctx context.Context, dealID uuid.UUID, nType notification.NotificationType, title, body, refType string, refID, skip uuid.UUID) error {
	d, err := h.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return err
	}

	var batch []*notification.Notification
	for _, dealerID := range []uuid.UUID{d.BuyerDealerID, d.SellerDealerID} {
		if dealerID == skip {
			continue
		}
		n, err := notification.NewNotification(dealerID, nType, title, body)
		if err != nil {
			return err
		}
		n.SetReference(refType, refID)
		batch = append(batch, n)
	}
	if len(batch) == 0 {
		return nil
	}

	return h.notificationRepo.SaveBatch(ctx, batch)
}

func inr(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}
