package deal

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeDeal = "Deal"

// Event type constants
const (
	EventTypeDealOpened     = "DealOpened"
	EventTypeDealCountered  = "DealCountered"
	EventTypeDealAccepted   = "DealAccepted"
	EventTypeDealProgressed = "DealProgressed"
	EventTypeDealCompleted  = "DealCompleted"
	EventTypeDealClosed     = "DealClosed"
)

// DealOpenedEvent is published when a buyer opens a deal with an offer
type DealOpenedEvent struct {
	shared.BaseDomainEvent
	DealID         uuid.UUID       `json:"deal_id"`
	DealNumber     string          `json:"deal_number"`
	VehicleID      uuid.UUID       `json:"vehicle_id"`
	BuyerDealerID  uuid.UUID       `json:"buyer_dealer_id"`
	SellerDealerID uuid.UUID       `json:"seller_dealer_id"`
	Amount         decimal.Decimal `json:"amount"`
}

// NewDealOpenedEvent creates a new DealOpenedEvent
func NewDealOpenedEvent(d *Deal) *DealOpenedEvent {
	return &DealOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealOpened, AggregateTypeDeal, d.ID, d.BuyerDealerID),
		DealID:          d.ID,
		DealNumber:      d.DealNumber,
		VehicleID:       d.VehicleID,
		BuyerDealerID:   d.BuyerDealerID,
		SellerDealerID:  d.SellerDealerID,
		Amount:          d.CurrentAmount,
	}
}

// DealCounteredEvent is published for each counter-offer
type DealCounteredEvent struct {
	shared.BaseDomainEvent
	DealID     uuid.UUID       `json:"deal_id"`
	DealNumber string          `json:"deal_number"`
	OldStatus  DealStatus      `json:"old_status"`
	Amount     decimal.Decimal `json:"amount"`
	ProposedBy uuid.UUID       `json:"proposed_by"`
}

// NewDealCounteredEvent creates a new DealCounteredEvent
func NewDealCounteredEvent(d *Deal, oldStatus DealStatus, byDealerID uuid.UUID) *DealCounteredEvent {
	return &DealCounteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealCountered, AggregateTypeDeal, d.ID, byDealerID),
		DealID:          d.ID,
		DealNumber:      d.DealNumber,
		OldStatus:       oldStatus,
		Amount:          d.CurrentAmount,
		ProposedBy:      byDealerID,
	}
}

// DealAcceptedEvent is published when a proposal is accepted.
// Downstream handlers reserve the vehicle and open the escrow payment.
type DealAcceptedEvent struct {
	shared.BaseDomainEvent
	DealID         uuid.UUID       `json:"deal_id"`
	DealNumber     string          `json:"deal_number"`
	VehicleID      uuid.UUID       `json:"vehicle_id"`
	BuyerDealerID  uuid.UUID       `json:"buyer_dealer_id"`
	SellerDealerID uuid.UUID       `json:"seller_dealer_id"`
	OldStatus      DealStatus      `json:"old_status"`
	AgreedAmount   decimal.Decimal `json:"agreed_amount"`
	AcceptedBy     uuid.UUID       `json:"accepted_by"`
}

// NewDealAcceptedEvent creates a new DealAcceptedEvent
func NewDealAcceptedEvent(d *Deal, oldStatus DealStatus, byDealerID uuid.UUID) *DealAcceptedEvent {
	return &DealAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealAccepted, AggregateTypeDeal, d.ID, byDealerID),
		DealID:          d.ID,
		DealNumber:      d.DealNumber,
		VehicleID:       d.VehicleID,
		BuyerDealerID:   d.BuyerDealerID,
		SellerDealerID:  d.SellerDealerID,
		OldStatus:       oldStatus,
		AgreedAmount:    d.AgreedAmount,
		AcceptedBy:      byDealerID,
	}
}

// DealProgressedEvent is published for escrow and transit transitions
type DealProgressedEvent struct {
	shared.BaseDomainEvent
	DealID     uuid.UUID  `json:"deal_id"`
	DealNumber string     `json:"deal_number"`
	VehicleID  uuid.UUID  `json:"vehicle_id"`
	OldStatus  DealStatus `json:"old_status"`
	NewStatus  DealStatus `json:"new_status"`
}

// NewDealProgressedEvent creates a new DealProgressedEvent
func NewDealProgressedEvent(d *Deal, oldStatus DealStatus) *DealProgressedEvent {
	return &DealProgressedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealProgressed, AggregateTypeDeal, d.ID, uuid.Nil),
		DealID:          d.ID,
		DealNumber:      d.DealNumber,
		VehicleID:       d.VehicleID,
		OldStatus:       oldStatus,
		NewStatus:       d.Status,
	}
}

// DealCompletedEvent is published on delivery.
// Downstream handlers release the escrow funds and mark the vehicle sold.
type DealCompletedEvent struct {
	shared.BaseDomainEvent
	DealID         uuid.UUID       `json:"deal_id"`
	DealNumber     string          `json:"deal_number"`
	VehicleID      uuid.UUID       `json:"vehicle_id"`
	BuyerDealerID  uuid.UUID       `json:"buyer_dealer_id"`
	SellerDealerID uuid.UUID       `json:"seller_dealer_id"`
	OldStatus      DealStatus      `json:"old_status"`
	AgreedAmount   decimal.Decimal `json:"agreed_amount"`
	PaymentID      *uuid.UUID      `json:"payment_id,omitempty"`
}

// NewDealCompletedEvent creates a new DealCompletedEvent
func NewDealCompletedEvent(d *Deal, oldStatus DealStatus) *DealCompletedEvent {
	return &DealCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealCompleted, AggregateTypeDeal, d.ID, uuid.Nil),
		DealID:          d.ID,
		DealNumber:      d.DealNumber,
		VehicleID:       d.VehicleID,
		BuyerDealerID:   d.BuyerDealerID,
		SellerDealerID:  d.SellerDealerID,
		OldStatus:       oldStatus,
		AgreedAmount:    d.AgreedAmount,
		PaymentID:       d.PaymentID,
	}
}

// DealClosedEvent is published when a deal ends without completing
// (rejected, cancelled or expired). Downstream handlers release the
// vehicle reservation and refund escrow if needed.
type DealClosedEvent struct {
	shared.BaseDomainEvent
	DealID         uuid.UUID  `json:"deal_id"`
	DealNumber     string     `json:"deal_number"`
	VehicleID      uuid.UUID  `json:"vehicle_id"`
	BuyerDealerID  uuid.UUID  `json:"buyer_dealer_id"`
	SellerDealerID uuid.UUID  `json:"seller_dealer_id"`
	OldStatus      DealStatus `json:"old_status"`
	NewStatus      DealStatus `json:"new_status"`
	Reason         string     `json:"reason,omitempty"`
	PaymentID      *uuid.UUID `json:"payment_id,omitempty"`
}

// NewDealClosedEvent creates a new DealClosedEvent
func NewDealClosedEvent(d *Deal, oldStatus DealStatus, byDealerID uuid.UUID) *DealClosedEvent {
	reason := d.RejectReason
	if d.Status == DealStatusCancelled {
		reason = d.CancelReason
	}
	return &DealClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealClosed, AggregateTypeDeal, d.ID, byDealerID),
		DealID:          d.ID,
		DealNumber:      d.DealNumber,
		VehicleID:       d.VehicleID,
		BuyerDealerID:   d.BuyerDealerID,
		SellerDealerID:  d.SellerDealerID,
		OldStatus:       oldStatus,
		NewStatus:       d.Status,
		Reason:          reason,
		PaymentID:       d.PaymentID,
	}
}
