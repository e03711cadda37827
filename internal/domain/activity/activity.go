package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// Record is an append-only audit entry built from a domain event.
// One row per event; the payload keeps the full serialized event.
type Record struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EventType     string    `gorm:"type:varchar(100);not null;index"`
	AggregateType string    `gorm:"type:varchar(100);not null;index"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorDealerID uuid.UUID `gorm:"type:uuid;index"` // uuid.Nil for system actions
	Payload       string    `gorm:"type:jsonb;not null"`
	OccurredAt    time.Time `gorm:"not null;index"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "activity_records"
}

// NewRecord builds an audit record from a domain event and its
// serialized payload
func NewRecord(event shared.DomainEvent, payload string) *Record {
	return &Record{
		ID:            uuid.New(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		ActorDealerID: event.ActorDealerID(),
		Payload:       payload,
		OccurredAt:    event.OccurredAt(),
		CreatedAt:     time.Now(),
	}
}

// RecordRepository defines the interface for activity persistence
type RecordRepository interface {
	// Save appends an audit record. Duplicate event IDs are ignored.
	Save(ctx context.Context, record *Record) error

	// FindByAggregate finds records for one aggregate, newest first
	FindByAggregate(ctx context.Context, aggregateType string, aggregateID uuid.UUID, filter shared.Filter) ([]Record, error)

	// FindByActor finds records produced by one dealer
	FindByActor(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]Record, error)

	// FindAll finds records matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Record, error)

	// Count counts records matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
