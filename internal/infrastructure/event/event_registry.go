package event

import (
	"github.com/wheeltrade/backend/internal/domain/billing"
	"github.com/wheeltrade/backend/internal/domain/catalog"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/dealer"
	"github.com/wheeltrade/backend/internal/domain/identity"
	"github.com/wheeltrade/backend/internal/domain/logistics"
)

// RegisterAllEvents registers all domain event types with the serializer
// so the activity recorder can round-trip event payloads.
func RegisterAllEvents(serializer *EventSerializer) {
	// Dealer domain events
	serializer.Register(dealer.EventTypeDealerRegistered, &dealer.DealerRegisteredEvent{})
	serializer.Register(dealer.EventTypeDealerUpdated, &dealer.DealerUpdatedEvent{})
	serializer.Register(dealer.EventTypeDealerStatusChanged, &dealer.DealerStatusChangedEvent{})
	serializer.Register(dealer.EventTypeDealerMarginPolicyChanged, &dealer.DealerMarginPolicyChangedEvent{})

	// Identity domain events
	serializer.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	serializer.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})
	serializer.Register(identity.EventTypeUserStatusChanged, &identity.UserStatusChangedEvent{})

	// Catalog domain events
	serializer.Register(catalog.EventTypeVehicleCreated, &catalog.VehicleCreatedEvent{})
	serializer.Register(catalog.EventTypeVehiclePriced, &catalog.VehiclePricedEvent{})
	serializer.Register(catalog.EventTypeVehicleStatusChanged, &catalog.VehicleStatusChangedEvent{})

	// Deal domain events
	serializer.Register(deal.EventTypeDealOpened, &deal.DealOpenedEvent{})
	serializer.Register(deal.EventTypeDealCountered, &deal.DealCounteredEvent{})
	serializer.Register(deal.EventTypeDealAccepted, &deal.DealAcceptedEvent{})
	serializer.Register(deal.EventTypeDealProgressed, &deal.DealProgressedEvent{})
	serializer.Register(deal.EventTypeDealCompleted, &deal.DealCompletedEvent{})
	serializer.Register(deal.EventTypeDealClosed, &deal.DealClosedEvent{})

	// Billing domain events
	serializer.Register(billing.EventTypePaymentInitiated, &billing.PaymentInitiatedEvent{})
	serializer.Register(billing.EventTypePaymentStatusChanged, &billing.PaymentStatusChangedEvent{})

	// Logistics domain events
	serializer.Register(logistics.EventTypeTransportOrderQuoted, &logistics.TransportOrderQuotedEvent{})
	serializer.Register(logistics.EventTypeTransportStatusChange, &logistics.TransportStatusChangedEvent{})
}
