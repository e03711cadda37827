package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// PaymentStatus represents the status of an escrow payment
type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated" // Gateway order created, awaiting funds
	PaymentStatusHeld      PaymentStatus = "held"      // Funds captured into the escrow account
	PaymentStatusReleased  PaymentStatus = "released"  // Paid out to the seller
	PaymentStatusRefunded  PaymentStatus = "refunded"  // Returned to the buyer
	PaymentStatusFailed    PaymentStatus = "failed"    // Gateway declined or timed out
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusInitiated, PaymentStatusHeld, PaymentStatusReleased,
		PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusInitiated:
		return target == PaymentStatusHeld || target == PaymentStatusFailed
	case PaymentStatusHeld:
		return target == PaymentStatusReleased || target == PaymentStatusRefunded
	case PaymentStatusReleased, PaymentStatusRefunded, PaymentStatusFailed:
		return false // Terminal states
	}
	return false
}

// EscrowPayment represents funds held in escrow for a deal.
// Owned by the buying dealer who funds the escrow.
type EscrowPayment struct {
	shared.OwnedAggregateRoot
	PaymentNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	DealID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerDealerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status         PaymentStatus   `gorm:"type:varchar(20);not null;default:'initiated'"`
	GatewayOrderID string          `gorm:"type:varchar(100);not null;uniqueIndex"` // Order reference at the payment gateway
	GatewayTxnID   string          `gorm:"type:varchar(100)"`                      // Capture reference from the webhook
	FailureReason  string          `gorm:"type:varchar(500)"`
	HeldAt         *time.Time
	SettledAt      *time.Time // Release or refund timestamp
}

// TableName returns the table name for GORM
func (EscrowPayment) TableName() string {
	return "escrow_payments"
}

// NewEscrowPayment opens an escrow payment for an accepted deal
func NewEscrowPayment(paymentNumber string, dealID, buyerDealerID, sellerDealerID uuid.UUID, amount decimal.Decimal, gatewayOrderID string) (*EscrowPayment, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if dealID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEAL_ID", "Deal ID cannot be empty")
	}
	if buyerDealerID == uuid.Nil || sellerDealerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEALER_ID", "Buyer and seller IDs cannot be empty")
	}
	if buyerDealerID == sellerDealerID {
		return nil, shared.ErrSelfDealing
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if gatewayOrderID == "" {
		return nil, shared.NewDomainError("INVALID_GATEWAY_ORDER", "Gateway order ID cannot be empty")
	}

	payment := &EscrowPayment{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(buyerDealerID),
		PaymentNumber:      paymentNumber,
		DealID:             dealID,
		SellerDealerID:     sellerDealerID,
		Amount:             amount,
		Status:             PaymentStatusInitiated,
		GatewayOrderID:     gatewayOrderID,
	}

	payment.AddDomainEvent(NewPaymentInitiatedEvent(payment))

	return payment, nil
}

// MarkHeld records capture of the buyer's funds into escrow.
// Driven by the verified gateway webhook.
func (p *EscrowPayment) MarkHeld(gatewayTxnID string) error {
	if !p.Status.CanTransitionTo(PaymentStatusHeld) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Payment cannot be held from status "+string(p.Status))
	}
	if gatewayTxnID == "" {
		return shared.NewDomainError("INVALID_GATEWAY_TXN", "Gateway transaction ID cannot be empty")
	}

	oldStatus := p.Status
	now := time.Now()
	p.Status = PaymentStatusHeld
	p.GatewayTxnID = gatewayTxnID
	p.HeldAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentStatusChangedEvent(p, oldStatus))

	return nil
}

// MarkFailed records a gateway decline or timeout
func (p *EscrowPayment) MarkFailed(reason string) error {
	if !p.Status.CanTransitionTo(PaymentStatusFailed) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Payment cannot fail from status "+string(p.Status))
	}
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}

	oldStatus := p.Status
	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentStatusChangedEvent(p, oldStatus))

	return nil
}

// Release pays the held funds out to the seller on delivery
func (p *EscrowPayment) Release() error {
	if !p.Status.CanTransitionTo(PaymentStatusReleased) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Payment cannot be released from status "+string(p.Status))
	}

	oldStatus := p.Status
	now := time.Now()
	p.Status = PaymentStatusReleased
	p.SettledAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentStatusChangedEvent(p, oldStatus))

	return nil
}

// Refund returns the held funds to the buyer on cancellation
func (p *EscrowPayment) Refund() error {
	if !p.Status.CanTransitionTo(PaymentStatusRefunded) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Payment cannot be refunded from status "+string(p.Status))
	}

	oldStatus := p.Status
	now := time.Now()
	p.Status = PaymentStatusRefunded
	p.SettledAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentStatusChangedEvent(p, oldStatus))

	return nil
}

// IsHeld returns true if the funds are in escrow
func (p *EscrowPayment) IsHeld() bool {
	return p.Status == PaymentStatusHeld
}

// IsSettled returns true if the funds left escrow in either direction
func (p *EscrowPayment) IsSettled() bool {
	return p.Status == PaymentStatusReleased || p.Status == PaymentStatusRefunded
}
