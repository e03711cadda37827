package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wheeltrade/backend/internal/domain/notification"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// NotificationService handles notification read operations
type NotificationService struct {
	notificationRepo notification.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo notification.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *NotificationService) SetLogger(logger *zap.Logger) {
	s.logger = logger
}

// List returns a dealer's notifications, newest first
func (s *NotificationService) List(ctx context.Context, dealerID uuid.UUID, req NotificationListFilter) ([]NotificationResponse, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	var (
		notifications []notification.Notification
		err           error
	)
	if req.UnreadOnly {
		notifications, err = s.notificationRepo.FindUnreadForDealer(ctx, dealerID, filter)
	} else {
		notifications, err = s.notificationRepo.FindForDealer(ctx, dealerID, filter)
	}
	if err != nil {
		return nil, err
	}

	return ToNotificationResponses(notifications), nil
}

// UnreadCount returns the number of unread notifications for a dealer
func (s *NotificationService) UnreadCount(ctx context.Context, dealerID uuid.UUID) (*UnreadCountResponse, error) {
	count, err := s.notificationRepo.CountUnreadForDealer(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Unread: count}, nil
}

// MarkRead marks a notification as read
func (s *NotificationService) MarkRead(ctx context.Context, dealerID, notificationID uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.DealerID != dealerID {
		return nil, shared.ErrForbidden
	}

	if !n.Read {
		n.MarkRead()
		if err := s.notificationRepo.Save(ctx, n); err != nil {
			return nil, err
		}
	}

	return ToNotificationResponse(n), nil
}

// MarkAllRead marks all of a dealer's notifications as read
func (s *NotificationService) MarkAllRead(ctx context.Context, dealerID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, dealerID)
}

// PurgeOldNotifications deletes read notifications older than maxAgeDays.
// Called by the cleanup scheduler.
func (s *NotificationService) PurgeOldNotifications(ctx context.Context, maxAgeDays int) (int64, error) {
	deleted, err := s.notificationRepo.DeleteOlderThan(ctx, maxAgeDays)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("purged old notifications", zap.Int64("deleted", deleted), zap.Int("max_age_days", maxAgeDays))
	}
	return deleted, nil
}
