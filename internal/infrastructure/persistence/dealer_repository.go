package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wheeltrade/backend/internal/domain/dealer"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

// GormDealerRepository implements DealerRepository using GORM
type GormDealerRepository struct {
	db *gorm.DB
}

// NewGormDealerRepository creates a new GormDealerRepository
func NewGormDealerRepository(db *gorm.DB) *GormDealerRepository {
	return &GormDealerRepository{db: db}
}

// FindByID finds a dealer by its ID
func (r *GormDealerRepository) FindByID(ctx context.Context, id uuid.UUID) (*dealer.Dealer, error) {
	var d dealer.Dealer
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByCode finds a dealer by its code
func (r *GormDealerRepository) FindByCode(ctx context.Context, code string) (*dealer.Dealer, error) {
	var d dealer.Dealer
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByGSTIN finds a dealer by GSTIN
func (r *GormDealerRepository) FindByGSTIN(ctx context.Context, gstin valueobject.GSTIN) (*dealer.Dealer, error) {
	var d dealer.Dealer
	if err := r.db.WithContext(ctx).
		Where("gstin = ?", gstin.String()).
		First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindAll finds all dealers matching the filter
func (r *GormDealerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]dealer.Dealer, error) {
	var dealers []dealer.Dealer
	query := r.applyFilter(r.db.WithContext(ctx).Model(&dealer.Dealer{}), filter)

	if err := query.Find(&dealers).Error; err != nil {
		return nil, err
	}
	return dealers, nil
}

// FindByStatus finds dealers by status
func (r *GormDealerRepository) FindByStatus(ctx context.Context, status dealer.DealerStatus, filter shared.Filter) ([]dealer.Dealer, error) {
	var dealers []dealer.Dealer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&dealer.Dealer{}).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&dealers).Error; err != nil {
		return nil, err
	}
	return dealers, nil
}

// FindByIDs finds multiple dealers by their IDs
func (r *GormDealerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]dealer.Dealer, error) {
	if len(ids) == 0 {
		return []dealer.Dealer{}, nil
	}

	var dealers []dealer.Dealer
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&dealers).Error; err != nil {
		return nil, err
	}
	return dealers, nil
}

// Save creates or updates a dealer
func (r *GormDealerRepository) Save(ctx context.Context, d *dealer.Dealer) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// SaveWithLock saves a dealer with optimistic locking (version check).
// Returns error if the version has changed (concurrent modification).
func (r *GormDealerRepository) SaveWithLock(ctx context.Context, d *dealer.Dealer) error {
	result := r.db.WithContext(ctx).
		Model(d).
		Where("id = ? AND version = ?", d.ID, d.Version-1).
		Updates(d)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The dealer record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a dealer
func (r *GormDealerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&dealer.Dealer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts dealers matching the filter
func (r *GormDealerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&dealer.Dealer{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts dealers by status
func (r *GormDealerRepository) CountByStatus(ctx context.Context, status dealer.DealerStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&dealer.Dealer{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a dealer with the given code exists
func (r *GormDealerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&dealer.Dealer{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByGSTIN checks if a dealer with the given GSTIN exists
func (r *GormDealerRepository) ExistsByGSTIN(ctx context.Context, gstin valueobject.GSTIN) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&dealer.Dealer{}).
		Where("gstin = ?", gstin.String()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormDealerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("business_name ASC")
	}

	return query
}

func (r *GormDealerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("business_name ILIKE ? OR code ILIKE ? OR gstin ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "state_code":
			query = query.Where("gstin LIKE ?", value.(string)+"%")
		case "city":
			query = query.Where("city = ?", value)
		case "customer_mode":
			query = query.Where("customer_mode = ?", value)
		}
	}

	return query
}

var _ dealer.DealerRepository = (*GormDealerRepository)(nil)
