package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeExpirer struct {
	calls   atomic.Int32
	limit   atomic.Int32
	expired int
	err     error
	done    chan struct{}
}

func (f *fakeExpirer) ExpireLapsedDeals(ctx context.Context, limit int) (int, error) {
	f.calls.Add(1)
	f.limit.Store(int32(limit))
	if f.done != nil {
		select {
		case f.done <- struct{}{}:
		default:
		}
	}
	return f.expired, f.err
}

func TestOfferExpiryScheduler_SweepLoop(t *testing.T) {
	expirer := &fakeExpirer{expired: 3, done: make(chan struct{}, 1)}
	s := NewOfferExpiryScheduler(expirer, zaptest.NewLogger(t), OfferExpirySchedulerConfig{
		Enabled:       true,
		SweepInterval: 10 * time.Millisecond,
		SweepLimit:    200,
		SweepTimeout:  time.Second,
	})

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	select {
	case <-expirer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep was never executed")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	assert.False(t, s.IsRunning())

	assert.GreaterOrEqual(t, expirer.calls.Load(), int32(1))
	assert.Equal(t, int32(200), expirer.limit.Load())
}

func TestOfferExpiryScheduler_Disabled(t *testing.T) {
	expirer := &fakeExpirer{}
	s := NewOfferExpiryScheduler(expirer, zaptest.NewLogger(t), OfferExpirySchedulerConfig{
		Enabled: false,
	})

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.TriggerImmediateSweep(context.Background()), ErrSchedulerNotRunning)
}

func TestOfferExpiryScheduler_TriggerImmediateSweep(t *testing.T) {
	expirer := &fakeExpirer{expired: 1, done: make(chan struct{}, 1)}
	s := NewOfferExpiryScheduler(expirer, zaptest.NewLogger(t), OfferExpirySchedulerConfig{
		Enabled:       true,
		SweepInterval: time.Hour, // never fires during the test
		SweepLimit:    50,
	})

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(stopCtx)
	}()

	require.NoError(t, s.TriggerImmediateSweep(context.Background()))

	select {
	case <-expirer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("immediate sweep was never executed")
	}
	assert.Equal(t, int32(50), expirer.limit.Load())
}

func TestOfferExpiryScheduler_SweepErrorDoesNotStopLoop(t *testing.T) {
	expirer := &fakeExpirer{err: errors.New("db unavailable"), done: make(chan struct{}, 1)}
	s := NewOfferExpiryScheduler(expirer, zaptest.NewLogger(t), OfferExpirySchedulerConfig{
		Enabled:       true,
		SweepInterval: 10 * time.Millisecond,
	})

	require.NoError(t, s.Start(context.Background()))

	// Wait for at least two sweeps
	for i := 0; i < 2; i++ {
		select {
		case <-expirer.done:
		case <-time.After(2 * time.Second):
			t.Fatal("sweep loop stalled after error")
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
}

type fakePruner struct {
	calls   atomic.Int32
	maxAge  atomic.Int32
	deleted int64
	done    chan struct{}
}

func (f *fakePruner) PurgeOldNotifications(ctx context.Context, maxAgeDays int) (int64, error) {
	f.calls.Add(1)
	f.maxAge.Store(int32(maxAgeDays))
	if f.done != nil {
		select {
		case f.done <- struct{}{}:
		default:
		}
	}
	return f.deleted, nil
}

func TestNotificationCleanupScheduler(t *testing.T) {
	pruner := &fakePruner{deleted: 12, done: make(chan struct{}, 1)}
	s := NewNotificationCleanupScheduler(pruner, zaptest.NewLogger(t), NotificationCleanupSchedulerConfig{
		Enabled:    true,
		Interval:   10 * time.Millisecond,
		MaxAgeDays: 90,
	})

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	select {
	case <-pruner.done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup was never executed")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	assert.Equal(t, int32(90), pruner.maxAge.Load())
}

func TestNotificationCleanupScheduler_DefaultsApplied(t *testing.T) {
	s := NewNotificationCleanupScheduler(&fakePruner{}, zaptest.NewLogger(t), NotificationCleanupSchedulerConfig{
		Enabled: true,
	})
	assert.Equal(t, 24*time.Hour, s.config.Interval)
	assert.Equal(t, 90, s.config.MaxAgeDays)
	assert.Equal(t, 5*time.Minute, s.config.Timeout)
}
