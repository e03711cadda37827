package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// EscrowPaymentRepository defines the interface for payment persistence
type EscrowPaymentRepository interface {
	// FindByID finds a payment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*EscrowPayment, error)

	// FindByNumber finds a payment by its payment number
	FindByNumber(ctx context.Context, paymentNumber string) (*EscrowPayment, error)

	// FindByGatewayOrderID finds a payment by the gateway order reference
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*EscrowPayment, error)

	// FindByDeal finds payments for a deal
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]EscrowPayment, error)

	// FindForDealer finds payments where the dealer is buyer or seller
	FindForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]EscrowPayment, error)

	// FindByStatus finds payments by status
	FindByStatus(ctx context.Context, status PaymentStatus, filter shared.Filter) ([]EscrowPayment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *EscrowPayment) error

	// SaveWithLock saves a payment with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *EscrowPayment) error

	// CountByStatus counts payments by status
	CountByStatus(ctx context.Context, status PaymentStatus) (int64, error)

	// GeneratePaymentNumber generates a unique sequential payment number
	GeneratePaymentNumber(ctx context.Context) (string, error)
}
