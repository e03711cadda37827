package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeEscrowPayment = "EscrowPayment"

// Event type constants
const (
	EventTypePaymentInitiated     = "PaymentInitiated"
	EventTypePaymentStatusChanged = "PaymentStatusChanged"
)

// PaymentInitiatedEvent is published when an escrow payment is opened
type PaymentInitiatedEvent struct {
	shared.BaseDomainEvent
	PaymentID      uuid.UUID       `json:"payment_id"`
	PaymentNumber  string          `json:"payment_number"`
	DealID         uuid.UUID       `json:"deal_id"`
	BuyerDealerID  uuid.UUID       `json:"buyer_dealer_id"`
	SellerDealerID uuid.UUID       `json:"seller_dealer_id"`
	Amount         decimal.Decimal `json:"amount"`
}

// NewPaymentInitiatedEvent creates a new PaymentInitiatedEvent
func NewPaymentInitiatedEvent(p *EscrowPayment) *PaymentInitiatedEvent {
	return &PaymentInitiatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentInitiated, AggregateTypeEscrowPayment, p.ID, p.DealerID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		DealID:          p.DealID,
		BuyerDealerID:   p.DealerID,
		SellerDealerID:  p.SellerDealerID,
		Amount:          p.Amount,
	}
}

// PaymentStatusChangedEvent is published on every payment transition.
// Held payments move the deal into escrow; released payments close it.
type PaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	DealID        uuid.UUID       `json:"deal_id"`
	OldStatus     PaymentStatus   `json:"old_status"`
	NewStatus     PaymentStatus   `json:"new_status"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason,omitempty"`
}

// NewPaymentStatusChangedEvent creates a new PaymentStatusChangedEvent
func NewPaymentStatusChangedEvent(p *EscrowPayment, oldStatus PaymentStatus) *PaymentStatusChangedEvent {
	return &PaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentStatusChanged, AggregateTypeEscrowPayment, p.ID, uuid.Nil),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		DealID:          p.DealID,
		OldStatus:       oldStatus,
		NewStatus:       p.Status,
		Amount:          p.Amount,
		Reason:          p.FailureReason,
	}
}
