package activity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/wheeltrade/backend/internal/domain/activity"
)

// RecordListFilter carries the query parameters for the audit trail
type RecordListFilter struct {
	EventType     string `form:"event_type"`
	AggregateType string `form:"aggregate_type"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}

// RecordResponse is the API view of an audit record
type RecordResponse struct {
	ID            uuid.UUID       `json:"id"`
	EventID       uuid.UUID       `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	ActorDealerID *uuid.UUID      `json:"actor_dealer_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// ToRecordResponse converts a domain record to a response DTO
func ToRecordResponse(r *activity.Record) *RecordResponse {
	resp := &RecordResponse{
		ID:            r.ID,
		EventID:       r.EventID,
		EventType:     r.EventType,
		AggregateType: r.AggregateType,
		AggregateID:   r.AggregateID,
		Payload:       json.RawMessage(r.Payload),
		OccurredAt:    r.OccurredAt,
	}
	if r.ActorDealerID != uuid.Nil {
		actor := r.ActorDealerID
		resp.ActorDealerID = &actor
	}
	return resp
}

// ToRecordResponses converts a slice of domain records
func ToRecordResponses(records []activity.Record) []RecordResponse {
	responses := make([]RecordResponse, len(records))
	for i := range records {
		responses[i] = *ToRecordResponse(&records[i])
	}
	return responses
}
