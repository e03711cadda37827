package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wheeltrade/backend/internal/domain/billing"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// GormEscrowPaymentRepository implements EscrowPaymentRepository using GORM
type GormEscrowPaymentRepository struct {
	db *gorm.DB
}

// NewGormEscrowPaymentRepository creates a new GormEscrowPaymentRepository
func NewGormEscrowPaymentRepository(db *gorm.DB) *GormEscrowPaymentRepository {
	return &GormEscrowPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormEscrowPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.EscrowPayment, error) {
	var p billing.EscrowPayment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByNumber finds a payment by its payment number
func (r *GormEscrowPaymentRepository) FindByNumber(ctx context.Context, paymentNumber string) (*billing.EscrowPayment, error) {
	var p billing.EscrowPayment
	if err := r.db.WithContext(ctx).
		Where("payment_number = ?", paymentNumber).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByGatewayOrderID finds a payment by the gateway order reference
func (r *GormEscrowPaymentRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*billing.EscrowPayment, error) {
	var p billing.EscrowPayment
	if err := r.db.WithContext(ctx).
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByDeal finds payments for a deal
func (r *GormEscrowPaymentRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]billing.EscrowPayment, error) {
	var payments []billing.EscrowPayment
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindForDealer finds payments where the dealer is buyer or seller
func (r *GormEscrowPaymentRepository) FindForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]billing.EscrowPayment, error) {
	var payments []billing.EscrowPayment
	query := r.db.WithContext(ctx).Model(&billing.EscrowPayment{}).
		Where("dealer_id = ? OR seller_dealer_id = ?", dealerID, dealerID)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByStatus finds payments by status
func (r *GormEscrowPaymentRepository) FindByStatus(ctx context.Context, status billing.PaymentStatus, filter shared.Filter) ([]billing.EscrowPayment, error) {
	var payments []billing.EscrowPayment
	query := r.db.WithContext(ctx).Model(&billing.EscrowPayment{}).Where("status = ?", status)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormEscrowPaymentRepository) Save(ctx context.Context, payment *billing.EscrowPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SaveWithLock saves a payment with optimistic locking (version check)
func (r *GormEscrowPaymentRepository) SaveWithLock(ctx context.Context, payment *billing.EscrowPayment) error {
	result := r.db.WithContext(ctx).
		Model(payment).
		Where("id = ? AND version = ?", payment.ID, payment.Version-1).
		Updates(payment)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The payment has been modified by another transaction")
	}
	return nil
}

// CountByStatus counts payments by status
func (r *GormEscrowPaymentRepository) CountByStatus(ctx context.Context, status billing.PaymentStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.EscrowPayment{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GeneratePaymentNumber generates a unique sequential payment number.
// Format: PAY-YYYY-NNNNN (e.g., PAY-2026-00001)
func (r *GormEscrowPaymentRepository) GeneratePaymentNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PAY-%d-", year)

	var lastPayment billing.EscrowPayment
	err := r.db.WithContext(ctx).
		Model(&billing.EscrowPayment{}).
		Where("payment_number LIKE ?", prefix+"%").
		Order("payment_number DESC").
		First(&lastPayment).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastPayment.PaymentNumber != "" {
		parts := strings.Split(lastPayment.PaymentNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

var _ billing.EscrowPaymentRepository = (*GormEscrowPaymentRepository)(nil)
