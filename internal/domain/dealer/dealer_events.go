package dealer

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeDealer = "Dealer"

// Event type constants
const (
	EventTypeDealerRegistered          = "DealerRegistered"
	EventTypeDealerUpdated             = "DealerUpdated"
	EventTypeDealerStatusChanged       = "DealerStatusChanged"
	EventTypeDealerMarginPolicyChanged = "DealerMarginPolicyChanged"
)

// DealerRegisteredEvent is published when a new dealer registers
type DealerRegisteredEvent struct {
	shared.BaseDomainEvent
	DealerID     uuid.UUID `json:"dealer_id"`
	Code         string    `json:"code"`
	BusinessName string    `json:"business_name"`
	GSTIN        string    `json:"gstin"`
}

// NewDealerRegisteredEvent creates a new DealerRegisteredEvent
func NewDealerRegisteredEvent(d *Dealer) *DealerRegisteredEvent {
	return &DealerRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealerRegistered, AggregateTypeDealer, d.ID, d.ID),
		DealerID:        d.ID,
		Code:            d.Code,
		BusinessName:    d.BusinessName,
		GSTIN:           d.GSTIN.String(),
	}
}

// DealerUpdatedEvent is published when a dealer's profile changes
type DealerUpdatedEvent struct {
	shared.BaseDomainEvent
	DealerID     uuid.UUID `json:"dealer_id"`
	Code         string    `json:"code"`
	BusinessName string    `json:"business_name"`
	LegalName    string    `json:"legal_name,omitempty"`
}

// NewDealerUpdatedEvent creates a new DealerUpdatedEvent
func NewDealerUpdatedEvent(d *Dealer) *DealerUpdatedEvent {
	return &DealerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealerUpdated, AggregateTypeDealer, d.ID, d.ID),
		DealerID:        d.ID,
		Code:            d.Code,
		BusinessName:    d.BusinessName,
		LegalName:       d.LegalName,
	}
}

// DealerStatusChangedEvent is published when a dealer's status changes
type DealerStatusChangedEvent struct {
	shared.BaseDomainEvent
	DealerID  uuid.UUID    `json:"dealer_id"`
	Code      string       `json:"code"`
	OldStatus DealerStatus `json:"old_status"`
	NewStatus DealerStatus `json:"new_status"`
	Reason    string       `json:"reason,omitempty"`
}

// NewDealerStatusChangedEvent creates a new DealerStatusChangedEvent
func NewDealerStatusChangedEvent(d *Dealer, oldStatus, newStatus DealerStatus) *DealerStatusChangedEvent {
	return &DealerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealerStatusChanged, AggregateTypeDealer, d.ID, d.ID),
		DealerID:        d.ID,
		Code:            d.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
		Reason:          d.SuspendReason,
	}
}

// DealerMarginPolicyChangedEvent is published when a dealer's margin policy changes
type DealerMarginPolicyChangedEvent struct {
	shared.BaseDomainEvent
	DealerID     uuid.UUID       `json:"dealer_id"`
	MinMarginPct decimal.Decimal `json:"min_margin_pct"`
	TargetMargin decimal.Decimal `json:"target_margin_pct"`
}

// NewDealerMarginPolicyChangedEvent creates a new DealerMarginPolicyChangedEvent
func NewDealerMarginPolicyChangedEvent(d *Dealer) *DealerMarginPolicyChangedEvent {
	return &DealerMarginPolicyChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealerMarginPolicyChanged, AggregateTypeDealer, d.ID, d.ID),
		DealerID:        d.ID,
		MinMarginPct:    d.MinMarginPct,
		TargetMargin:    d.TargetMargin,
	}
}
