package dealer

import (
	"context"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

// DealerRepository defines the interface for dealer persistence
type DealerRepository interface {
	// FindByID finds a dealer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Dealer, error)

	// FindByCode finds a dealer by its code
	FindByCode(ctx context.Context, code string) (*Dealer, error)

	// FindByGSTIN finds a dealer by GSTIN
	FindByGSTIN(ctx context.Context, gstin valueobject.GSTIN) (*Dealer, error)

	// FindAll finds all dealers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Dealer, error)

	// FindByStatus finds dealers by status
	FindByStatus(ctx context.Context, status DealerStatus, filter shared.Filter) ([]Dealer, error)

	// FindByIDs finds multiple dealers by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Dealer, error)

	// Save creates or updates a dealer
	Save(ctx context.Context, dealer *Dealer) error

	// SaveWithLock saves a dealer with optimistic locking (version check)
	SaveWithLock(ctx context.Context, dealer *Dealer) error

	// Delete deletes a dealer
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts dealers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts dealers by status
	CountByStatus(ctx context.Context, status DealerStatus) (int64, error)

	// ExistsByCode checks if a dealer with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// ExistsByGSTIN checks if a dealer with the given GSTIN exists
	ExistsByGSTIN(ctx context.Context, gstin valueobject.GSTIN) (bool, error)
}
