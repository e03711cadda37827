package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

// VehicleRepository defines the interface for vehicle persistence
type VehicleRepository interface {
	// FindByID finds a vehicle by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// FindByIDForDealer finds a vehicle by ID owned by the given dealer
	FindByIDForDealer(ctx context.Context, dealerID, id uuid.UUID) (*Vehicle, error)

	// FindByVIN finds a vehicle by its VIN
	FindByVIN(ctx context.Context, vin valueobject.VIN) (*Vehicle, error)

	// FindAll finds all vehicles matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Vehicle, error)

	// FindAllForDealer finds all vehicles owned by a dealer
	FindAllForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]Vehicle, error)

	// FindListed finds marketplace-visible vehicles, excluding the given
	// dealer's own listings when excludeDealerID is non-nil
	FindListed(ctx context.Context, excludeDealerID *uuid.UUID, filter shared.Filter) ([]Vehicle, error)

	// FindByStatus finds a dealer's vehicles by status
	FindByStatus(ctx context.Context, dealerID uuid.UUID, status VehicleStatus, filter shared.Filter) ([]Vehicle, error)

	// Save creates or updates a vehicle
	Save(ctx context.Context, vehicle *Vehicle) error

	// SaveWithLock saves a vehicle with optimistic locking (version check)
	SaveWithLock(ctx context.Context, vehicle *Vehicle) error

	// Delete deletes a vehicle
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts vehicles matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountForDealer counts a dealer's vehicles
	CountForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error)

	// CountByStatus counts a dealer's vehicles by status
	CountByStatus(ctx context.Context, dealerID uuid.UUID, status VehicleStatus) (int64, error)

	// ExistsByVIN checks if a vehicle with the given VIN exists
	ExistsByVIN(ctx context.Context, vin valueobject.VIN) (bool, error)
}
