package queuectl

import (
	"context"
	"log/slog"
	"time"

	"github.com/ruubhagat/queuectl/internal"
)

// RetentionConfig configures a RetentionWorker.
type RetentionConfig struct {
	// Interval is how often old completed jobs are pruned.
	Interval time.Duration

	// MaxAge is how long a Completed job is kept before it becomes
	// eligible for deletion.
	MaxAge time.Duration
}

// RetentionWorker periodically deletes Completed jobs older than
// MaxAge, keeping the jobs table from growing without bound. It never
// touches Pending, Processing or Dead jobs.
type RetentionWorker struct {
	lcBase
	store    Retentioner
	clock    Clock
	interval time.Duration
	maxAge   time.Duration
	log      *slog.Logger
	task     internal.TimerTask
}

// NewRetentionWorker creates a RetentionWorker. It is not started
// automatically.
func NewRetentionWorker(store Retentioner, clock Clock, config RetentionConfig, log *slog.Logger) *RetentionWorker {
	if clock == nil {
		clock = SystemClock
	}
	return &RetentionWorker{
		store:    store,
		clock:    clock,
		interval: config.Interval,
		maxAge:   config.MaxAge,
		log:      log,
	}
}

// Start begins the periodic prune. Start returns ErrDoubleStarted if
// the worker has already been started.
func (r *RetentionWorker) Start(ctx context.Context) error {
	if err := r.tryStart(); err != nil {
		return err
	}
	r.task.Start(ctx, r.prune, r.interval)
	return nil
}

// Stop gracefully stops the worker. Stop returns ErrDoubleStopped if
// the worker is not running.
func (r *RetentionWorker) Stop(timeout time.Duration) error {
	return r.tryStop(timeout, r.task.Stop)
}

func (r *RetentionWorker) prune(ctx context.Context) {
	before := r.clock() - int64(r.maxAge.Seconds())
	n, err := r.store.DeleteCompletedBefore(ctx, before)
	if err != nil {
		r.log.Error("retention prune failed", "err", err)
		return
	}
	if n > 0 {
		r.log.Info("pruned completed jobs", "count", n)
	}
}
