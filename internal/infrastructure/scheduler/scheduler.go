// Package scheduler runs periodic background jobs: expiring stale deal
// offers and purging old read notifications.
package scheduler

import (
	"context"
	"errors"
)

// Scheduler is a long-running background job runner
type Scheduler interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsRunning() bool
}

var (
	// ErrSchedulerNotRunning is returned when triggering a job on a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
)
