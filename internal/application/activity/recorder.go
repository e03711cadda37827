package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/activity"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// EventSerializer turns a domain event into its stored JSON payload.
// Satisfied by the infrastructure event serializer.
type EventSerializer interface {
	Serialize(event shared.DomainEvent) ([]byte, error)
}

// Recorder persists every published domain event as an audit record.
// Registered on the bus without event type filters so it sees everything.
type Recorder struct {
	recordRepo activity.RecordRepository
	serializer EventSerializer
	logger     *zap.Logger
}

// NewRecorder creates a new activity recorder
func NewRecorder(recordRepo activity.RecordRepository, serializer EventSerializer, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		recordRepo: recordRepo,
		serializer: serializer,
		logger:     logger,
	}
}

// EventTypes returns nil so the bus delivers every event type
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle appends the event to the audit trail
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := r.serializer.Serialize(event)
	if err != nil {
		return err
	}

	record := activity.NewRecord(event, string(payload))
	if err := r.recordRepo.Save(ctx, record); err != nil {
		return err
	}

	r.logger.Debug("activity recorded",
		zap.String("event_type", record.EventType),
		zap.String("aggregate_type", record.AggregateType))
	return nil
}
