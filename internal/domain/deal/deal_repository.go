package deal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// DealRepository defines the interface for deal persistence
type DealRepository interface {
	// FindByID finds a deal by its ID, including its offer history
	FindByID(ctx context.Context, id uuid.UUID) (*Deal, error)

	// FindByNumber finds a deal by its deal number
	FindByNumber(ctx context.Context, dealNumber string) (*Deal, error)

	// FindAll finds all deals matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Deal, error)

	// FindForDealer finds deals where the dealer is buyer or seller
	FindForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]Deal, error)

	// FindByStatus finds a dealer's deals by status
	FindByStatus(ctx context.Context, dealerID uuid.UUID, status DealStatus, filter shared.Filter) ([]Deal, error)

	// FindByVehicle finds deals on a vehicle
	FindByVehicle(ctx context.Context, vehicleID uuid.UUID, filter shared.Filter) ([]Deal, error)

	// FindOpenByVehicle finds non-terminal deals on a vehicle
	FindOpenByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]Deal, error)

	// FindExpired finds open offers whose deadline passed before the cutoff
	FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]Deal, error)

	// Save creates or updates a deal together with its offer history
	Save(ctx context.Context, deal *Deal) error

	// SaveWithLock saves a deal with optimistic locking (version check)
	// Returns error if the version has changed (concurrent modification)
	SaveWithLock(ctx context.Context, deal *Deal) error

	// Count counts deals matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountForDealer counts deals where the dealer is buyer or seller
	CountForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error)

	// CountByStatus counts a dealer's deals by status
	CountByStatus(ctx context.Context, dealerID uuid.UUID, status DealStatus) (int64, error)

	// GenerateDealNumber generates a unique sequential deal number
	GenerateDealNumber(ctx context.Context) (string, error)
}
