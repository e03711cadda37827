package activity

import (
	"context"

	"github.com/google/uuid"

	"github.com/wheeltrade/backend/internal/domain/activity"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// ActivityService serves the read-only audit trail
type ActivityService struct {
	recordRepo activity.RecordRepository
}

// NewActivityService creates a new activity service
func NewActivityService(recordRepo activity.RecordRepository) *ActivityService {
	return &ActivityService{recordRepo: recordRepo}
}

// List returns audit records matching the filter, newest first
func (s *ActivityService) List(ctx context.Context, req RecordListFilter) ([]RecordResponse, int64, error) {
	filter := s.buildFilter(req)

	records, err := s.recordRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.recordRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToRecordResponses(records), total, nil
}

// ListByAggregate returns the audit trail of one aggregate
func (s *ActivityService) ListByAggregate(ctx context.Context, aggregateType string, aggregateID uuid.UUID, req RecordListFilter) ([]RecordResponse, error) {
	records, err := s.recordRepo.FindByAggregate(ctx, aggregateType, aggregateID, s.buildFilter(req))
	if err != nil {
		return nil, err
	}
	return ToRecordResponses(records), nil
}

// ListByActor returns the records produced by one dealer's actions
func (s *ActivityService) ListByActor(ctx context.Context, dealerID uuid.UUID, req RecordListFilter) ([]RecordResponse, error) {
	records, err := s.recordRepo.FindByActor(ctx, dealerID, s.buildFilter(req))
	if err != nil {
		return nil, err
	}
	return ToRecordResponses(records), nil
}

func (s *ActivityService) buildFilter(req RecordListFilter) shared.Filter {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  "occurred_at",
		OrderDir: "desc",
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 50
	}

	filters := make(map[string]interface{})
	if req.EventType != "" {
		filters["event_type"] = req.EventType
	}
	if req.AggregateType != "" {
		filters["aggregate_type"] = req.AggregateType
	}
	if len(filters) > 0 {
		filter.Filters = filters
	}
	return filter
}
