package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// GormDealRepository implements DealRepository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// FindByID finds a deal by its ID, including its offer history
func (r *GormDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*deal.Deal, error) {
	var d deal.Deal
	if err := r.db.WithContext(ctx).
		Preload("Offers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByNumber finds a deal by its deal number
func (r *GormDealRepository) FindByNumber(ctx context.Context, dealNumber string) (*deal.Deal, error) {
	var d deal.Deal
	if err := r.db.WithContext(ctx).
		Preload("Offers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("deal_number = ?", dealNumber).
		First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindAll finds all deals matching the filter
func (r *GormDealRepository) FindAll(ctx context.Context, filter shared.Filter) ([]deal.Deal, error) {
	var deals []deal.Deal
	query := r.applyFilter(r.db.WithContext(ctx).Model(&deal.Deal{}), filter)

	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindForDealer finds deals where the dealer is buyer or seller
func (r *GormDealRepository) FindForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]deal.Deal, error) {
	var deals []deal.Deal
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&deal.Deal{}).
			Where("buyer_dealer_id = ? OR seller_dealer_id = ?", dealerID, dealerID),
		filter,
	)

	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindByStatus finds a dealer's deals by status
func (r *GormDealRepository) FindByStatus(ctx context.Context, dealerID uuid.UUID, status deal.DealStatus, filter shared.Filter) ([]deal.Deal, error) {
	var deals []deal.Deal
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&deal.Deal{}).
			Where("(buyer_dealer_id = ? OR seller_dealer_id = ?) AND status = ?", dealerID, dealerID, status),
		filter,
	)

	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindByVehicle finds deals on a vehicle
func (r *GormDealRepository) FindByVehicle(ctx context.Context, vehicleID uuid.UUID, filter shared.Filter) ([]deal.Deal, error) {
	var deals []deal.Deal
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&deal.Deal{}).Where("vehicle_id = ?", vehicleID),
		filter,
	)

	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindOpenByVehicle finds non-terminal deals on a vehicle
func (r *GormDealRepository) FindOpenByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]deal.Deal, error) {
	var deals []deal.Deal
	if err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND status NOT IN ?", vehicleID, []deal.DealStatus{
			deal.DealStatusCompleted,
			deal.DealStatusRejected,
			deal.DealStatusCancelled,
			deal.DealStatusExpired,
		}).
		Order("created_at ASC").
		Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindExpired finds open offers whose deadline passed before the cutoff
func (r *GormDealRepository) FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]deal.Deal, error) {
	var deals []deal.Deal
	query := r.db.WithContext(ctx).
		Where("status IN ? AND expires_at IS NOT NULL AND expires_at <= ?",
			[]deal.DealStatus{deal.DealStatusOffer, deal.DealStatusNegotiating}, cutoff).
		Order("expires_at ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// Save creates or updates a deal together with its offer history.
// Offer rows are append-only; existing rows are left untouched.
func (r *GormDealRepository) Save(ctx context.Context, d *deal.Deal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Offers").Save(d).Error; err != nil {
			return err
		}
		if len(d.Offers) == 0 {
			return nil
		}
		offers := make([]deal.DealOffer, len(d.Offers))
		copy(offers, d.Offers)
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&offers).Error
	})
}

// SaveWithLock saves a deal with optimistic locking (version check).
// Returns error if the version has changed (concurrent modification).
func (r *GormDealRepository) SaveWithLock(ctx context.Context, d *deal.Deal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Select("*") forces zero-value columns into the UPDATE so clearing
		// expires_at on accept or expiry reaches the row.
		result := tx.Model(d).
			Select("*").
			Omit("Offers").
			Where("id = ? AND version = ?", d.ID, d.Version-1).
			Updates(d)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The deal has been modified by another transaction")
		}
		if len(d.Offers) == 0 {
			return nil
		}
		offers := make([]deal.DealOffer, len(d.Offers))
		copy(offers, d.Offers)
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&offers).Error
	})
}

// Count counts deals matching the filter
func (r *GormDealRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&deal.Deal{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForDealer counts deals where the dealer is buyer or seller
func (r *GormDealRepository) CountForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&deal.Deal{}).
		Where("buyer_dealer_id = ? OR seller_dealer_id = ?", dealerID, dealerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts a dealer's deals by status
func (r *GormDealRepository) CountByStatus(ctx context.Context, dealerID uuid.UUID, status deal.DealStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&deal.Deal{}).
		Where("(buyer_dealer_id = ? OR seller_dealer_id = ?) AND status = ?", dealerID, dealerID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateDealNumber generates a unique sequential deal number.
// Format: DL-YYYY-NNNNN (e.g., DL-2026-00001)
func (r *GormDealRepository) GenerateDealNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("DL-%d-", year)

	var lastDeal deal.Deal
	err := r.db.WithContext(ctx).
		Model(&deal.Deal{}).
		Where("deal_number LIKE ?", prefix+"%").
		Order("deal_number DESC").
		First(&lastDeal).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastDeal.DealNumber != "" {
		parts := strings.Split(lastDeal.DealNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

func (r *GormDealRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormDealRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("deal_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "vehicle_id":
			query = query.Where("vehicle_id = ?", value)
		case "buyer_dealer_id":
			query = query.Where("buyer_dealer_id = ?", value)
		case "seller_dealer_id":
			query = query.Where("seller_dealer_id = ?", value)
		}
	}

	return query
}

var _ deal.DealRepository = (*GormDealRepository)(nil)
