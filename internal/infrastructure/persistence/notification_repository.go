package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wheeltrade/backend/internal/domain/notification"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindForDealer finds a dealer's notifications, newest first
func (r *GormNotificationRepository) FindForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := r.db.WithContext(ctx).Model(&notification.Notification{}).Where("dealer_id = ?", dealerID)

	if nType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", nType)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindUnreadForDealer finds a dealer's unread notifications
func (r *GormNotificationRepository) FindUnreadForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("dealer_id = ? AND read = ?", dealerID, false)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// SaveBatch creates multiple notifications
func (r *GormNotificationRepository) SaveBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(notifications).Error
}

// MarkAllRead marks all of a dealer's notifications as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, dealerID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("dealer_id = ? AND read = ?", dealerID, false).
		Updates(map[string]interface{}{"read": true, "read_at": now, "updated_at": now}).Error
}

// CountUnreadForDealer counts a dealer's unread notifications
func (r *GormNotificationRepository) CountUnreadForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("dealer_id = ? AND read = ?", dealerID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOlderThan removes read notifications older than the given number of days
func (r *GormNotificationRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := r.db.WithContext(ctx).
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&notification.Notification{})

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)
