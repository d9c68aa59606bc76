package queuectl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ruubhagat/queuectl/executor"
)

// SupervisorConfig configures a Supervisor.
type SupervisorConfig struct {
	// Count is the number of independent WorkerLoops to run.
	Count int

	// PollInterval is passed through to every WorkerLoop.
	PollInterval time.Duration
}

// Supervisor runs Count independent WorkerLoops against the same
// Store, each in its own goroutine. It is the Go equivalent of the
// original implementation's one-process-per-worker model: the claim
// protocol's correctness does not depend on which concurrency
// primitive separates the workers, so goroutines are used here instead
// of OS processes.
type Supervisor struct {
	lcBase
	loops []*WorkerLoop
	log   *slog.Logger
}

// NewSupervisor creates Count WorkerLoops, each with a distinct ID of
// the form "worker-<n>".
func NewSupervisor(store Store, exec executor.Executor, cfg *Config, clock Clock, config SupervisorConfig, log *slog.Logger) *Supervisor {
	loops := make([]*WorkerLoop, config.Count)
	for i := range loops {
		loops[i] = NewWorkerLoop(store, exec, cfg, clock, WorkerLoopConfig{
			ID:           fmt.Sprintf("worker-%d", i+1),
			PollInterval: config.PollInterval,
		}, log)
	}
	return &Supervisor{loops: loops, log: log}
}

// Start starts every managed WorkerLoop. If any loop fails to start,
// Start stops the loops already started and returns the error.
func (s *Supervisor) Start(ctx context.Context) error {
	if err := s.tryStart(); err != nil {
		return err
	}
	for i, l := range s.loops {
		if err := l.Start(ctx); err != nil {
			for _, started := range s.loops[:i] {
				_ = started.Stop(5 * time.Second)
			}
			return err
		}
	}
	s.log.Info("supervisor started", "workers", len(s.loops))
	return nil
}

// Stop gracefully stops every managed WorkerLoop, waiting up to
// timeout for each. Stop returns the first error encountered, if any,
// after attempting to stop all loops.
func (s *Supervisor) Stop(timeout time.Duration) error {
	if !s.state.CompareAndSwap(started, stopped) {
		return ErrDoubleStopped
	}
	var firstErr error
	for _, l := range s.loops {
		if err := l.Stop(timeout); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.log.Info("supervisor stopped")
	return firstErr
}
