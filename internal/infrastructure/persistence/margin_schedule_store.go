package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	pricingapp "github.com/wheeltrade/backend/internal/application/pricing"
	"github.com/wheeltrade/backend/internal/domain/pricing"
)

const marginScheduleKey = "pricing:margin_schedule"

// RedisScheduleStore persists the margin schedule as JSON in Redis
type RedisScheduleStore struct {
	client *redis.Client
}

// NewRedisScheduleStore creates a new Redis-backed schedule store
func NewRedisScheduleStore(client *redis.Client) *RedisScheduleStore {
	return &RedisScheduleStore{client: client}
}

// Load reads the stored schedule, or ErrScheduleNotStored when absent
func (s *RedisScheduleStore) Load(ctx context.Context) (pricing.MarginSchedule, error) {
	data, err := s.client.Get(ctx, marginScheduleKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return pricing.MarginSchedule{}, pricingapp.ErrScheduleNotStored
	}
	if err != nil {
		return pricing.MarginSchedule{}, fmt.Errorf("load margin schedule: %w", err)
	}

	var stored pricing.MarginSchedule
	if err := json.Unmarshal(data, &stored); err != nil {
		return pricing.MarginSchedule{}, fmt.Errorf("decode margin schedule: %w", err)
	}

	// Re-validate so a hand-edited key cannot activate a broken schedule
	return pricing.NewMarginSchedule(stored.Brackets)
}

// Store writes the schedule. The key has no TTL; the schedule stays
// active until replaced.
func (s *RedisScheduleStore) Store(ctx context.Context, schedule pricing.MarginSchedule) error {
	data, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("encode margin schedule: %w", err)
	}
	if err := s.client.Set(ctx, marginScheduleKey, data, 0).Err(); err != nil {
		return fmt.Errorf("store margin schedule: %w", err)
	}
	return nil
}

var _ pricingapp.ScheduleStore = (*RedisScheduleStore)(nil)
