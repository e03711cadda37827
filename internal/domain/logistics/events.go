package logistics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTransportOrder = "TransportOrder"

// Event type constants
const (
	EventTypeTransportOrderQuoted  = "TransportOrderQuoted"
	EventTypeTransportStatusChange = "TransportStatusChanged"
)

// TransportOrderQuotedEvent is published when a transport order is quoted
type TransportOrderQuotedEvent struct {
	shared.BaseDomainEvent
	TransportOrderID uuid.UUID       `json:"transport_order_id"`
	OrderNumber      string          `json:"order_number"`
	DealID           uuid.UUID       `json:"deal_id"`
	PartnerID        uuid.UUID       `json:"partner_id"`
	QuoteAmount      decimal.Decimal `json:"quote_amount"`
}

// NewTransportOrderQuotedEvent creates a new TransportOrderQuotedEvent
func NewTransportOrderQuotedEvent(o *TransportOrder) *TransportOrderQuotedEvent {
	return &TransportOrderQuotedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeTransportOrderQuoted, AggregateTypeTransportOrder, o.ID, o.DealerID),
		TransportOrderID: o.ID,
		OrderNumber:      o.OrderNumber,
		DealID:           o.DealID,
		PartnerID:        o.PartnerID,
		QuoteAmount:      o.QuoteAmount,
	}
}

// TransportStatusChangedEvent is published on every transport transition
type TransportStatusChangedEvent struct {
	shared.BaseDomainEvent
	TransportOrderID uuid.UUID       `json:"transport_order_id"`
	OrderNumber      string          `json:"order_number"`
	DealID           uuid.UUID       `json:"deal_id"`
	VehicleID        uuid.UUID       `json:"vehicle_id"`
	OldStatus        TransportStatus `json:"old_status"`
	NewStatus        TransportStatus `json:"new_status"`
}

// NewTransportStatusChangedEvent creates a new TransportStatusChangedEvent
func NewTransportStatusChangedEvent(o *TransportOrder, oldStatus TransportStatus) *TransportStatusChangedEvent {
	return &TransportStatusChangedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeTransportStatusChange, AggregateTypeTransportOrder, o.ID, o.DealerID),
		TransportOrderID: o.ID,
		OrderNumber:      o.OrderNumber,
		DealID:           o.DealID,
		VehicleID:        o.VehicleID,
		OldStatus:        oldStatus,
		NewStatus:        o.Status,
	}
}
