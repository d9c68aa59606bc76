package queuectl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ruubhagat/queuectl/executor"
	"github.com/ruubhagat/queuectl/internal"
	"github.com/ruubhagat/queuectl/job"
)

// WorkerLoopConfig configures a WorkerLoop.
type WorkerLoopConfig struct {
	// ID identifies this loop in logs; Supervisor assigns one per
	// goroutine it manages.
	ID string

	// PollInterval is how often the loop attempts to claim a pending
	// job when idle.
	PollInterval time.Duration
}

// WorkerLoop repeatedly claims at most one pending job, executes it,
// and applies the resulting state transition, one job at a time.
//
// Unlike a handler pool, a WorkerLoop never runs more than one job
// concurrently; parallelism is achieved by running several independent
// loops, each with its own WorkerLoop, against the same Store. The
// atomic claim protocol in Store.ClaimOnePending is what makes that
// safe: two loops racing to claim the same row always leave exactly
// one of them with the job.
type WorkerLoop struct {
	lcBase
	store    Store
	exec     executor.Executor
	cfg      *Config
	clock    Clock
	id       string
	interval time.Duration
	log      *slog.Logger
	task     internal.TimerTask
}

// NewWorkerLoop creates a WorkerLoop. It is not started automatically.
func NewWorkerLoop(store Store, exec executor.Executor, cfg *Config, clock Clock, config WorkerLoopConfig, log *slog.Logger) *WorkerLoop {
	if clock == nil {
		clock = SystemClock
	}
	return &WorkerLoop{
		store:    store,
		exec:     exec,
		cfg:      cfg,
		clock:    clock,
		id:       config.ID,
		interval: config.PollInterval,
		log:      log.With("worker", config.ID),
	}
}

// Start begins polling for jobs. Start returns ErrDoubleStarted if the
// loop has already been started.
func (w *WorkerLoop) Start(ctx context.Context) error {
	if err := w.tryStart(); err != nil {
		return err
	}
	w.task.Start(ctx, w.tick, w.interval)
	return nil
}

// Stop gracefully stops the loop, waiting up to timeout for any
// in-flight job to finish. Stop returns ErrDoubleStopped if the loop is
// not running.
func (w *WorkerLoop) Stop(timeout time.Duration) error {
	return w.tryStop(timeout, w.task.Stop)
}

// tick claims and runs at most one job. It is invoked by the
// underlying TimerTask on every poll interval and is never called
// concurrently with itself.
func (w *WorkerLoop) tick(ctx context.Context) {
	now := w.clock()
	j, err := w.store.ClaimOnePending(ctx, now)
	if err != nil {
		w.log.Error("claim failed", "err", err)
		return
	}
	if j == nil {
		return
	}
	w.run(ctx, j)
}

func (w *WorkerLoop) run(ctx context.Context, j *job.Job) {
	// Stop cancels ctx; the claimed job still runs to completion (or its
	// own timeout) and its outcome is still persisted.
	ctx = context.WithoutCancel(ctx)

	timeout := time.Duration(0)
	if j.Timeout != nil {
		timeout = time.Duration(*j.Timeout) * time.Second
	}

	result := w.exec.Run(ctx, j.Command, timeout)

	stdout := result.Stdout
	stderr := result.Stderr
	now := w.clock()

	if result.Kind == executor.Success {
		patch := JobPatch{
			State:      job.Completed,
			LastStdout: &stdout,
			LastStderr: &stderr,
		}
		if err := w.store.UpdateJobState(ctx, j.ID, patch); err != nil {
			w.log.Error("update after success failed", "id", j.ID, "err", err)
		}
		return
	}

	errMsg := failureMessage(result, j.Timeout)
	backoffBase, err := w.cfg.BackoffBase(ctx)
	if err != nil {
		w.log.Error("reading backoff_base failed", "err", err)
		backoffBase = DefaultBackoffBase
	}

	decision := DecideRetry(j.Attempts, j.MaxRetries, backoffBase, now)

	attempts := decision.Attempts
	var state job.State
	switch decision.Outcome {
	case RetryPending:
		state = job.Pending
	case RetryDeadLetter:
		state = job.Dead
	}

	patch := JobPatch{
		State:     state,
		Attempts:  &attempts,
		LastError: &errMsg,
	}
	if decision.Outcome == RetryPending {
		nextRunAt := decision.NextRunAt
		patch.NextRunAt = &nextRunAt
	}
	if result.Kind != executor.Timeout {
		// For a timeout, stdout/stderr captured up to the kill are
		// persisted separately below so the retry/dead-letter
		// transition itself doesn't carry partial output.
		patch.LastStdout = &stdout
		patch.LastStderr = &stderr
	}
	if err := w.store.UpdateJobState(ctx, j.ID, patch); err != nil {
		w.log.Error("update after failed run failed", "id", j.ID, "err", err)
		return
	}

	if result.Kind == executor.Timeout {
		outputPatch := JobPatch{LastStdout: &stdout, LastStderr: &stderr}
		if err := w.store.UpdateJobState(ctx, j.ID, outputPatch); err != nil {
			w.log.Error("output update after timeout failed", "id", j.ID, "err", err)
		}
	}
}

func failureMessage(o executor.Outcome, timeout *int) string {
	switch o.Kind {
	case executor.Timeout:
		secs := 0
		if timeout != nil {
			secs = *timeout
		}
		return fmt.Sprintf("timeout after %ds", secs)
	case executor.SpawnError:
		return "failed to start command: " + o.Err.Error()
	default:
		return fmt.Sprintf("command exited with status %d", o.ExitCode)
	}
}
