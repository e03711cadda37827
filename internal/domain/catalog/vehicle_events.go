package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeVehicle = "Vehicle"

// Event type constants
const (
	EventTypeVehicleCreated       = "VehicleCreated"
	EventTypeVehiclePriced        = "VehiclePriced"
	EventTypeVehicleStatusChanged = "VehicleStatusChanged"
)

// VehicleCreatedEvent is published when a new vehicle listing is created
type VehicleCreatedEvent struct {
	shared.BaseDomainEvent
	VehicleID uuid.UUID `json:"vehicle_id"`
	VIN       string    `json:"vin"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
}

// NewVehicleCreatedEvent creates a new VehicleCreatedEvent
func NewVehicleCreatedEvent(v *Vehicle) *VehicleCreatedEvent {
	return &VehicleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVehicleCreated, AggregateTypeVehicle, v.ID, v.DealerID),
		VehicleID:       v.ID,
		VIN:             v.VIN.String(),
		Make:            v.Make,
		Model:           v.Model,
		Year:            v.Year,
	}
}

// VehiclePricedEvent is published when a vehicle's pricing is set.
// The floor price is intentionally omitted from the payload; it is
// private to the selling dealer.
type VehiclePricedEvent struct {
	shared.BaseDomainEvent
	VehicleID uuid.UUID       `json:"vehicle_id"`
	AskPrice  decimal.Decimal `json:"ask_price"`
}

// NewVehiclePricedEvent creates a new VehiclePricedEvent
func NewVehiclePricedEvent(v *Vehicle) *VehiclePricedEvent {
	return &VehiclePricedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVehiclePriced, AggregateTypeVehicle, v.ID, v.DealerID),
		VehicleID:       v.ID,
		AskPrice:        v.AskPrice,
	}
}

// VehicleStatusChangedEvent is published when a vehicle's status changes
type VehicleStatusChangedEvent struct {
	shared.BaseDomainEvent
	VehicleID uuid.UUID     `json:"vehicle_id"`
	VIN       string        `json:"vin"`
	OldStatus VehicleStatus `json:"old_status"`
	NewStatus VehicleStatus `json:"new_status"`
	DealID    *uuid.UUID    `json:"deal_id,omitempty"`
}

// NewVehicleStatusChangedEvent creates a new VehicleStatusChangedEvent
func NewVehicleStatusChangedEvent(v *Vehicle, oldStatus, newStatus VehicleStatus) *VehicleStatusChangedEvent {
	return &VehicleStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVehicleStatusChanged, AggregateTypeVehicle, v.ID, v.DealerID),
		VehicleID:       v.ID,
		VIN:             v.VIN.String(),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
		DealID:          v.ReservedByDeal,
	}
}
