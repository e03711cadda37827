package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wheeltrade/backend/internal/domain/logistics"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// GormTransportPartnerRepository implements TransportPartnerRepository using GORM
type GormTransportPartnerRepository struct {
	db *gorm.DB
}

// NewGormTransportPartnerRepository creates a new GormTransportPartnerRepository
func NewGormTransportPartnerRepository(db *gorm.DB) *GormTransportPartnerRepository {
	return &GormTransportPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormTransportPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.TransportPartner, error) {
	var p logistics.TransportPartner
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByCode finds a partner by its code
func (r *GormTransportPartnerRepository) FindByCode(ctx context.Context, code string) (*logistics.TransportPartner, error) {
	var p logistics.TransportPartner
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll finds all partners matching the filter
func (r *GormTransportPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]logistics.TransportPartner, error) {
	var partners []logistics.TransportPartner
	query := r.db.WithContext(ctx).Model(&logistics.TransportPartner{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("name ASC")

	if err := query.Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// FindActive finds partners accepting new bookings
func (r *GormTransportPartnerRepository) FindActive(ctx context.Context) ([]logistics.TransportPartner, error) {
	var partners []logistics.TransportPartner
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// Save creates or updates a partner
func (r *GormTransportPartnerRepository) Save(ctx context.Context, partner *logistics.TransportPartner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

// Delete deletes a partner
func (r *GormTransportPartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&logistics.TransportPartner{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks if a partner with the given code exists
func (r *GormTransportPartnerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&logistics.TransportPartner{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ logistics.TransportPartnerRepository = (*GormTransportPartnerRepository)(nil)

// GormTransportOrderRepository implements TransportOrderRepository using GORM
type GormTransportOrderRepository struct {
	db *gorm.DB
}

// NewGormTransportOrderRepository creates a new GormTransportOrderRepository
func NewGormTransportOrderRepository(db *gorm.DB) *GormTransportOrderRepository {
	return &GormTransportOrderRepository{db: db}
}

// FindByID finds a transport order by its ID
func (r *GormTransportOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.TransportOrder, error) {
	var o logistics.TransportOrder
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByNumber finds a transport order by its order number
func (r *GormTransportOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*logistics.TransportOrder, error) {
	var o logistics.TransportOrder
	if err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByDeal finds transport orders for a deal
func (r *GormTransportOrderRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]logistics.TransportOrder, error) {
	var orders []logistics.TransportOrder
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAllForDealer finds transport orders booked by a dealer
func (r *GormTransportOrderRepository) FindAllForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]logistics.TransportOrder, error) {
	var orders []logistics.TransportOrder
	query := r.db.WithContext(ctx).Model(&logistics.TransportOrder{}).Where("dealer_id = ?", dealerID)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds transport orders by status
func (r *GormTransportOrderRepository) FindByStatus(ctx context.Context, status logistics.TransportStatus, filter shared.Filter) ([]logistics.TransportOrder, error) {
	var orders []logistics.TransportOrder
	query := r.db.WithContext(ctx).Model(&logistics.TransportOrder{}).Where("status = ?", status)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a transport order
func (r *GormTransportOrderRepository) Save(ctx context.Context, order *logistics.TransportOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithLock saves a transport order with optimistic locking
func (r *GormTransportOrderRepository) SaveWithLock(ctx context.Context, order *logistics.TransportOrder) error {
	result := r.db.WithContext(ctx).
		Model(order).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(order)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The transport order has been modified by another transaction")
	}
	return nil
}

// CountForDealer counts a dealer's transport orders
func (r *GormTransportOrderRepository) CountForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&logistics.TransportOrder{}).
		Where("dealer_id = ?", dealerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateOrderNumber generates a unique sequential order number.
// Format: TO-YYYY-NNNNN (e.g., TO-2026-00001)
func (r *GormTransportOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("TO-%d-", year)

	var lastOrder logistics.TransportOrder
	err := r.db.WithContext(ctx).
		Model(&logistics.TransportOrder{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.OrderNumber != "" {
		parts := strings.Split(lastOrder.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

var _ logistics.TransportOrderRepository = (*GormTransportOrderRepository)(nil)
