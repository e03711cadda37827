package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// NotificationPruner deletes old read notifications.
// Implemented by the notification application service.
type NotificationPruner interface {
	PurgeOldNotifications(ctx context.Context, maxAgeDays int) (int64, error)
}

// NotificationCleanupSchedulerConfig holds configuration for the cleanup job
type NotificationCleanupSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is how often the cleanup runs
	Interval time.Duration

	// MaxAgeDays is how many days read notifications are kept
	MaxAgeDays int

	// Timeout is the maximum time for a cleanup run
	Timeout time.Duration
}

// DefaultNotificationCleanupSchedulerConfig returns default configuration
func DefaultNotificationCleanupSchedulerConfig() NotificationCleanupSchedulerConfig {
	return NotificationCleanupSchedulerConfig{
		Enabled:    true,
		Interval:   24 * time.Hour,
		MaxAgeDays: 90,
		Timeout:    5 * time.Minute,
	}
}

// NotificationCleanupScheduler periodically deletes read notifications
// older than the retention window.
type NotificationCleanupScheduler struct {
	pruner    NotificationPruner
	logger    *zap.Logger
	config    NotificationCleanupSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewNotificationCleanupScheduler creates a new notification cleanup scheduler
func NewNotificationCleanupScheduler(
	pruner NotificationPruner,
	logger *zap.Logger,
	config NotificationCleanupSchedulerConfig,
) *NotificationCleanupScheduler {
	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}
	if config.MaxAgeDays <= 0 {
		config.MaxAgeDays = 90
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}
	return &NotificationCleanupScheduler{
		pruner: pruner,
		logger: logger,
		config: config,
	}
}

// Start starts the cleanup loop
func (s *NotificationCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Notification cleanup scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runCleanupLoop(ctx)

	s.logger.Info("Notification cleanup scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("max_age_days", s.config.MaxAgeDays),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *NotificationCleanupScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Notification cleanup scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Notification cleanup scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the scheduler is running
func (s *NotificationCleanupScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// TriggerImmediateCleanup runs a cleanup right away
func (s *NotificationCleanupScheduler) TriggerImmediateCleanup(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.executeCleanup(ctx)
	}()

	return nil
}

func (s *NotificationCleanupScheduler) runCleanupLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Notification cleanup loop stopping")
			return
		case <-ticker.C:
			s.executeCleanup(ctx)
		}
	}
}

func (s *NotificationCleanupScheduler) executeCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	startTime := time.Now()
	deleted, err := s.pruner.PurgeOldNotifications(cleanupCtx, s.config.MaxAgeDays)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Notification cleanup failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Notification cleanup completed",
		zap.Duration("duration", duration),
		zap.Int64("deleted", deleted),
	)
}

var _ Scheduler = (*NotificationCleanupScheduler)(nil)
