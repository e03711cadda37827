package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wheeltrade/backend/internal/domain/notification"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repository
// =============================================================================

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, dealerID, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindUnreadForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, dealerID, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) SaveBatch(ctx context.Context, notifications []*notification.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, dealerID uuid.UUID) error {
	args := m.Called(ctx, dealerID)
	return args.Error(0)
}

func (m *MockNotificationRepository) CountUnreadForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, dealerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Fixtures
// =============================================================================

func newTestNotification(t *testing.T, dealerID uuid.UUID) *notification.Notification {
	t.Helper()
	n, err := notification.NewNotification(dealerID, notification.TypeOfferReceived,
		"New offer received", "Deal DL-2026-00042 opened with an offer of ₹980000.00")
	require.NoError(t, err)
	return n
}

// =============================================================================
// Tests
// =============================================================================

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	dealerID := uuid.New()

	t.Run("unread filter uses the unread finder", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationService(repo)

		repo.On("FindUnreadForDealer", ctx, dealerID, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "created_at" && f.OrderDir == "desc"
		})).Return([]notification.Notification{*newTestNotification(t, dealerID)}, nil)

		resp, err := svc.List(ctx, dealerID, NotificationListFilter{UnreadOnly: true})
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "offer_received", resp[0].Type)
		assert.False(t, resp[0].Read)
		repo.AssertNotCalled(t, "FindForDealer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("default lists everything", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationService(repo)

		repo.On("FindForDealer", ctx, dealerID, mock.Anything).
			Return([]notification.Notification{}, nil)

		resp, err := svc.List(ctx, dealerID, NotificationListFilter{})
		require.NoError(t, err)
		assert.Empty(t, resp)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	dealerID := uuid.New()

	t.Run("marks and saves", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationService(repo)
		n := newTestNotification(t, dealerID)

		repo.On("FindByID", ctx, n.ID).Return(n, nil)
		repo.On("Save", ctx, n).Return(nil)

		resp, err := svc.MarkRead(ctx, dealerID, n.ID)
		require.NoError(t, err)
		assert.True(t, resp.Read)
		assert.NotNil(t, resp.ReadAt)
	})

	t.Run("already read skips the save", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationService(repo)
		n := newTestNotification(t, dealerID)
		n.MarkRead()

		repo.On("FindByID", ctx, n.ID).Return(n, nil)

		resp, err := svc.MarkRead(ctx, dealerID, n.ID)
		require.NoError(t, err)
		assert.True(t, resp.Read)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("foreign notification rejected", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		svc := NewNotificationService(repo)
		n := newTestNotification(t, dealerID)

		repo.On("FindByID", ctx, n.ID).Return(n, nil)

		_, err := svc.MarkRead(ctx, uuid.New(), n.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestNotificationService_UnreadCount(t *testing.T) {
	ctx := context.Background()
	dealerID := uuid.New()
	repo := new(MockNotificationRepository)
	svc := NewNotificationService(repo)

	repo.On("CountUnreadForDealer", ctx, dealerID).Return(int64(7), nil)

	resp, err := svc.UnreadCount(ctx, dealerID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.Unread)
}

func TestNotificationService_PurgeOldNotifications(t *testing.T) {
	ctx := context.Background()
	repo := new(MockNotificationRepository)
	svc := NewNotificationService(repo)

	repo.On("DeleteOlderThan", ctx, 90).Return(int64(12), nil)

	deleted, err := svc.PurgeOldNotifications(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
}
