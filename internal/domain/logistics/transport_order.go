package logistics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// TransportStatus represents the status of a transport order
type TransportStatus string

const (
	TransportStatusQuoted    TransportStatus = "quoted"    // Priced but not confirmed
	TransportStatusBooked    TransportStatus = "booked"    // Confirmed with the partner
	TransportStatusPickedUp  TransportStatus = "picked_up" // Vehicle collected from the seller
	TransportStatusInTransit TransportStatus = "in_transit"
	TransportStatusDelivered TransportStatus = "delivered"
	TransportStatusCancelled TransportStatus = "cancelled"
)

// IsValid checks if the status is a valid TransportStatus
func (s TransportStatus) IsValid() bool {
	switch s {
	case TransportStatusQuoted, TransportStatusBooked, TransportStatusPickedUp,
		TransportStatusInTransit, TransportStatusDelivered, TransportStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransportStatus) CanTransitionTo(target TransportStatus) bool {
	switch s {
	case TransportStatusQuoted:
		return target == TransportStatusBooked || target == TransportStatusCancelled
	case TransportStatusBooked:
		return target == TransportStatusPickedUp || target == TransportStatusCancelled
	case TransportStatusPickedUp:
		return target == TransportStatusInTransit
	case TransportStatusInTransit:
		return target == TransportStatusDelivered
	case TransportStatusDelivered, TransportStatusCancelled:
		return false // Terminal states
	}
	return false
}

// TransportOrder represents one vehicle movement booked for a deal.
// Owned by the buying dealer who pays for transport.
type TransportOrder struct {
	shared.OwnedAggregateRoot
	OrderNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	DealID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	VehicleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartnerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         TransportStatus `gorm:"type:varchar(20);not null;default:'quoted'"`
	PickupCity     string          `gorm:"type:varchar(100);not null"`
	PickupPincode  string          `gorm:"type:varchar(10);not null"`
	DropoffCity    string          `gorm:"type:varchar(100);not null"`
	DropoffPincode string          `gorm:"type:varchar(10);not null"`
	DistanceKM     int             `gorm:"not null"`
	WeightKG       int             `gorm:"not null"`
	QuoteAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BookedAt       *time.Time
	PickedUpAt     *time.Time
	DeliveredAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TransportOrder) TableName() string {
	return "transport_orders"
}

// NewTransportOrder creates a quoted transport order for a deal
func NewTransportOrder(orderNumber string, buyerDealerID, dealID, vehicleID uuid.UUID, partner *TransportPartner,
	pickupCity, pickupPincode, dropoffCity, dropoffPincode string, distanceKM, weightKG int) (*TransportOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if dealID == uuid.Nil || vehicleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Deal and vehicle IDs cannot be empty")
	}
	if pickupCity == "" || dropoffCity == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Pickup and dropoff cities cannot be empty")
	}

	quote, err := partner.QuoteFor(distanceKM, weightKG)
	if err != nil {
		return nil, err
	}

	order := &TransportOrder{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(buyerDealerID),
		OrderNumber:        orderNumber,
		DealID:             dealID,
		VehicleID:          vehicleID,
		PartnerID:          partner.ID,
		Status:             TransportStatusQuoted,
		PickupCity:         pickupCity,
		PickupPincode:      pickupPincode,
		DropoffCity:        dropoffCity,
		DropoffPincode:     dropoffPincode,
		DistanceKM:         distanceKM,
		WeightKG:           weightKG,
		QuoteAmount:        quote,
	}

	order.AddDomainEvent(NewTransportOrderQuotedEvent(order))

	return order, nil
}

// Book confirms the quote with the partner
func (o *TransportOrder) Book() error {
	if !o.Status.CanTransitionTo(TransportStatusBooked) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Transport order cannot be booked from status "+string(o.Status))
	}

	oldStatus := o.Status
	now := time.Now()
	o.Status = TransportStatusBooked
	o.BookedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewTransportStatusChangedEvent(o, oldStatus))

	return nil
}

// MarkPickedUp records collection of the vehicle from the seller
func (o *TransportOrder) MarkPickedUp() error {
	if !o.Status.CanTransitionTo(TransportStatusPickedUp) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Transport order cannot be picked up from status "+string(o.Status))
	}

	oldStatus := o.Status
	now := time.Now()
	o.Status = TransportStatusPickedUp
	o.PickedUpAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewTransportStatusChangedEvent(o, oldStatus))

	return nil
}

// MarkInTransit records departure toward the buyer
func (o *TransportOrder) MarkInTransit() error {
	if !o.Status.CanTransitionTo(TransportStatusInTransit) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Transport order cannot enter transit from status "+string(o.Status))
	}

	oldStatus := o.Status
	o.Status = TransportStatusInTransit
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewTransportStatusChangedEvent(o, oldStatus))

	return nil
}

// MarkDelivered records arrival at the buyer's dealership
func (o *TransportOrder) MarkDelivered() error {
	if !o.Status.CanTransitionTo(TransportStatusDelivered) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Transport order cannot be delivered from status "+string(o.Status))
	}

	oldStatus := o.Status
	now := time.Now()
	o.Status = TransportStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewTransportStatusChangedEvent(o, oldStatus))

	return nil
}

// Cancel cancels the order before pickup
func (o *TransportOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(TransportStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Transport order cannot be cancelled from status "+string(o.Status))
	}
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}

	oldStatus := o.Status
	o.Status = TransportStatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewTransportStatusChangedEvent(o, oldStatus))

	return nil
}

// IsDelivered returns true if the vehicle has arrived
func (o *TransportOrder) IsDelivered() bool {
	return o.Status == TransportStatusDelivered
}
