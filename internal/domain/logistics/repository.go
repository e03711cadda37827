package logistics

import (
	"context"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// TransportPartnerRepository defines the interface for partner persistence
type TransportPartnerRepository interface {
	// FindByID finds a partner by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*TransportPartner, error)

	// FindByCode finds a partner by its code
	FindByCode(ctx context.Context, code string) (*TransportPartner, error)

	// FindAll finds all partners matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]TransportPartner, error)

	// FindActive finds partners accepting new bookings
	FindActive(ctx context.Context) ([]TransportPartner, error)

	// Save creates or updates a partner
	Save(ctx context.Context, partner *TransportPartner) error

	// Delete deletes a partner
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByCode checks if a partner with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// TransportOrderRepository defines the interface for transport order persistence
type TransportOrderRepository interface {
	// FindByID finds a transport order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*TransportOrder, error)

	// FindByNumber finds a transport order by its order number
	FindByNumber(ctx context.Context, orderNumber string) (*TransportOrder, error)

	// FindByDeal finds transport orders for a deal
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]TransportOrder, error)

	// FindAllForDealer finds transport orders booked by a dealer
	FindAllForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]TransportOrder, error)

	// FindByStatus finds transport orders by status
	FindByStatus(ctx context.Context, status TransportStatus, filter shared.Filter) ([]TransportOrder, error)

	// Save creates or updates a transport order
	Save(ctx context.Context, order *TransportOrder) error

	// SaveWithLock saves a transport order with optimistic locking
	SaveWithLock(ctx context.Context, order *TransportOrder) error

	// CountForDealer counts a dealer's transport orders
	CountForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error)

	// GenerateOrderNumber generates a unique sequential order number
	GenerateOrderNumber(ctx context.Context) (string, error)
}
