package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OfferExpirer marks lapsed deal offers as expired.
// Implemented by the deal application service.
type OfferExpirer interface {
	ExpireLapsedDeals(ctx context.Context, limit int) (int, error)
}

// OfferExpirySchedulerConfig holds configuration for the offer expiry sweeper
type OfferExpirySchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// SweepInterval is how often the sweeper looks for lapsed offers
	SweepInterval time.Duration

	// SweepLimit is the maximum number of deals expired per sweep
	SweepLimit int

	// SweepTimeout is the maximum time for a single sweep
	SweepTimeout time.Duration
}

// DefaultOfferExpirySchedulerConfig returns default configuration
func DefaultOfferExpirySchedulerConfig() OfferExpirySchedulerConfig {
	return OfferExpirySchedulerConfig{
		Enabled:       true,
		SweepInterval: 5 * time.Minute,
		SweepLimit:    200,
		SweepTimeout:  time.Minute,
	}
}

// OfferExpiryScheduler periodically expires deals whose offers have
// passed their deadline without a response.
type OfferExpiryScheduler struct {
	expirer   OfferExpirer
	logger    *zap.Logger
	config    OfferExpirySchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewOfferExpiryScheduler creates a new offer expiry scheduler
func NewOfferExpiryScheduler(
	expirer OfferExpirer,
	logger *zap.Logger,
	config OfferExpirySchedulerConfig,
) *OfferExpiryScheduler {
	if config.SweepInterval <= 0 {
		config.SweepInterval = 5 * time.Minute
	}
	if config.SweepLimit <= 0 {
		config.SweepLimit = 200
	}
	if config.SweepTimeout <= 0 {
		config.SweepTimeout = time.Minute
	}
	return &OfferExpiryScheduler{
		expirer: expirer,
		logger:  logger,
		config:  config,
	}
}

// Start starts the sweep loop
func (s *OfferExpiryScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Offer expiry scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runSweepLoop(ctx)

	s.logger.Info("Offer expiry scheduler started",
		zap.Duration("interval", s.config.SweepInterval),
		zap.Int("limit", s.config.SweepLimit),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *OfferExpiryScheduler) Stop(ctx context.Context) error {
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
		s.logger.Info("Offer expiry scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Offer expiry scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the scheduler is running
func (s *OfferExpiryScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// TriggerImmediateSweep runs a sweep right away without waiting for the ticker
func (s *OfferExpiryScheduler) TriggerImmediateSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.executeSweep(ctx)
	}()

	return nil
}

func (s *OfferExpiryScheduler) runSweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Offer expiry sweep loop stopping")
			return
		case <-ticker.C:
			s.executeSweep(ctx)
		}
	}
}

func (s *OfferExpiryScheduler) executeSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	startTime := time.Now()
	expired, err := s.expirer.ExpireLapsedDeals(sweepCtx, s.config.SweepLimit)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Offer expiry sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	if expired > 0 {
		s.logger.Info("Offer expiry sweep completed",
			zap.Duration("duration", duration),
			zap.Int("expired", expired),
		)
	}
}

var _ Scheduler = (*OfferExpiryScheduler)(nil)
