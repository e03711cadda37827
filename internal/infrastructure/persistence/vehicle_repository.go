package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wheeltrade/backend/internal/domain/catalog"
	"github.com/wheeltrade/backend/internal/domain/shared"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

// GormVehicleRepository implements VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID finds a vehicle by its ID
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Vehicle, error) {
	var v catalog.Vehicle
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindByIDForDealer finds a vehicle by ID owned by the given dealer
func (r *GormVehicleRepository) FindByIDForDealer(ctx context.Context, dealerID, id uuid.UUID) (*catalog.Vehicle, error) {
	var v catalog.Vehicle
	if err := r.db.WithContext(ctx).
		Where("dealer_id = ? AND id = ?", dealerID, id).
		First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindByVIN finds a vehicle by its VIN
func (r *GormVehicleRepository) FindByVIN(ctx context.Context, vin valueobject.VIN) (*catalog.Vehicle, error) {
	var v catalog.Vehicle
	if err := r.db.WithContext(ctx).
		Where("vin = ?", vin.String()).
		First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindAll finds all vehicles matching the filter
func (r *GormVehicleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Vehicle, error) {
	var vehicles []catalog.Vehicle
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Vehicle{}), filter)

	if err := query.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// FindAllForDealer finds all vehicles owned by a dealer
func (r *GormVehicleRepository) FindAllForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]catalog.Vehicle, error) {
	var vehicles []catalog.Vehicle
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Vehicle{}).Where("dealer_id = ?", dealerID),
		filter,
	)

	if err := query.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// FindListed finds marketplace-visible vehicles. When excludeDealerID is
// non-nil the dealer's own listings are filtered out.
func (r *GormVehicleRepository) FindListed(ctx context.Context, excludeDealerID *uuid.UUID, filter shared.Filter) ([]catalog.Vehicle, error) {
	var vehicles []catalog.Vehicle
	query := r.db.WithContext(ctx).Model(&catalog.Vehicle{}).
		Where("status = ?", catalog.VehicleStatusListed)

	if excludeDealerID != nil {
		query = query.Where("dealer_id <> ?", *excludeDealerID)
	}

	query = r.applyFilter(query, filter)

	if err := query.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// FindByStatus finds a dealer's vehicles by status
func (r *GormVehicleRepository) FindByStatus(ctx context.Context, dealerID uuid.UUID, status catalog.VehicleStatus, filter shared.Filter) ([]catalog.Vehicle, error) {
	var vehicles []catalog.Vehicle
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Vehicle{}).
			Where("dealer_id = ? AND status = ?", dealerID, status),
		filter,
	)

	if err := query.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Save creates or updates a vehicle
func (r *GormVehicleRepository) Save(ctx context.Context, vehicle *catalog.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// SaveWithLock saves a vehicle with optimistic locking (version check)
func (r *GormVehicleRepository) SaveWithLock(ctx context.Context, vehicle *catalog.Vehicle) error {
	// Select("*") forces zero-value columns into the UPDATE so a released
	// reservation actually clears reserved_by_deal.
	result := r.db.WithContext(ctx).
		Model(vehicle).
		Select("*").
		Where("id = ? AND version = ?", vehicle.ID, vehicle.Version-1).
		Updates(vehicle)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The vehicle record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a vehicle
func (r *GormVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Vehicle{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts vehicles matching the filter
func (r *GormVehicleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Vehicle{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForDealer counts a dealer's vehicles
func (r *GormVehicleRepository) CountForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Vehicle{}).
		Where("dealer_id = ?", dealerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts a dealer's vehicles by status
func (r *GormVehicleRepository) CountByStatus(ctx context.Context, dealerID uuid.UUID, status catalog.VehicleStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Vehicle{}).
		Where("dealer_id = ? AND status = ?", dealerID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByVIN checks if a vehicle with the given VIN exists
func (r *GormVehicleRepository) ExistsByVIN(ctx context.Context, vin valueobject.VIN) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Vehicle{}).
		Where("vin = ?", vin.String()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormVehicleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

func (r *GormVehicleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("make ILIKE ? OR model ILIKE ? OR vin ILIKE ? OR registration_no ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "make":
			query = query.Where("make = ?", value)
		case "model":
			query = query.Where("model = ?", value)
		case "fuel_type":
			query = query.Where("fuel_type = ?", value)
		case "transmission":
			query = query.Where("transmission = ?", value)
		case "year_min":
			query = query.Where("year >= ?", value)
		case "year_max":
			query = query.Where("year <= ?", value)
		case "price_min":
			query = query.Where("ask_price >= ?", value)
		case "price_max":
			query = query.Where("ask_price <= ?", value)
		case "odometer_max":
			query = query.Where("odometer_km <= ?", value)
		}
	}

	return query
}

var _ catalog.VehicleRepository = (*GormVehicleRepository)(nil)
