package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wheeltrade/backend/internal/domain/activity"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// GormActivityRepository implements RecordRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Save appends an audit record. Duplicate event IDs are ignored so
// re-delivered events do not produce double entries.
func (r *GormActivityRepository) Save(ctx context.Context, record *activity.Record) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(record).Error
}

// FindByAggregate finds records for one aggregate, newest first
func (r *GormActivityRepository) FindByAggregate(ctx context.Context, aggregateType string, aggregateID uuid.UUID, filter shared.Filter) ([]activity.Record, error) {
	var records []activity.Record
	query := r.db.WithContext(ctx).Model(&activity.Record{}).
		Where("aggregate_type = ? AND aggregate_id = ?", aggregateType, aggregateID)

	query = r.applyFilter(query, filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByActor finds records produced by one dealer
func (r *GormActivityRepository) FindByActor(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]activity.Record, error) {
	var records []activity.Record
	query := r.db.WithContext(ctx).Model(&activity.Record{}).
		Where("actor_dealer_id = ?", dealerID)

	query = r.applyFilter(query, filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll finds records matching the filter
func (r *GormActivityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]activity.Record, error) {
	var records []activity.Record
	query := r.applyFilter(r.db.WithContext(ctx).Model(&activity.Record{}), filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts records matching the filter
func (r *GormActivityRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&activity.Record{})
	if eventType, ok := filter.Filters["event_type"]; ok {
		query = query.Where("event_type = ?", eventType)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormActivityRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if eventType, ok := filter.Filters["event_type"]; ok {
		query = query.Where("event_type = ?", eventType)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query.Order("occurred_at DESC")
}

var _ activity.RecordRepository = (*GormActivityRepository)(nil)
