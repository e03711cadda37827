package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// FindByID finds a notification by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindForDealer finds a dealer's notifications, newest first
	FindForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]Notification, error)

	// FindUnreadForDealer finds a dealer's unread notifications
	FindUnreadForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]Notification, error)

	// Save creates or updates a notification
	Save(ctx context.Context, notification *Notification) error

	// SaveBatch creates multiple notifications
	SaveBatch(ctx context.Context, notifications []*Notification) error

	// MarkAllRead marks all of a dealer's notifications as read
	MarkAllRead(ctx context.Context, dealerID uuid.UUID) error

	// CountUnreadForDealer counts a dealer's unread notifications
	CountUnreadForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error)

	// DeleteOlderThan removes read notifications older than the given number of days
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
