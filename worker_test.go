package queuectl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ruubhagat/queuectl/executor"
	"github.com/ruubhagat/queuectl/job"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is a minimal in-memory Store stand-in exercising only what
// WorkerLoop touches: a single pending job to claim and a recorder of
// every UpdateJobState call.
type fakeStore struct {
	toClaim *job.Job
	claimed bool
	patches []JobPatch
}

func (f *fakeStore) SaveJob(context.Context, *job.Job) error { return nil }

func (f *fakeStore) ClaimOnePending(context.Context, int64) (*job.Job, error) {
	if f.claimed || f.toClaim == nil {
		return nil, nil
	}
	f.claimed = true
	cp := *f.toClaim
	return &cp, nil
}

func (f *fakeStore) UpdateJobState(_ context.Context, id string, patch JobPatch) error {
	f.patches = append(f.patches, patch)
	return nil
}

func (f *fakeStore) GetJob(context.Context, string) (*job.Job, error)     { return nil, ErrNotFound }
func (f *fakeStore) ListJobs(context.Context, ListFilter) ([]*job.Job, error) {
	return nil, nil
}
func (f *fakeStore) ListJobsPaginated(context.Context, job.State, int, int) ([]*job.Job, int, error) {
	return nil, 0, nil
}
func (f *fakeStore) StatsSummary(context.Context) (StatsSummary, error) { return StatsSummary{}, nil }
func (f *fakeStore) GetJobEvents(context.Context, string, int) ([]*job.Event, error) {
	return nil, nil
}
func (f *fakeStore) GetConfig(context.Context, string) (string, error)    { return "", ErrNotFound }
func (f *fakeStore) SetConfig(context.Context, string, string) error     { return nil }
func (f *fakeStore) RetryDead(context.Context, string) error             { return nil }
func (f *fakeStore) DeleteCompletedBefore(context.Context, int64) (int, error) {
	return 0, nil
}
func (f *fakeStore) Close() error { return nil }

var _ Store = (*fakeStore)(nil)

type fakeExecutor struct {
	outcome executor.Outcome
}

func (f *fakeExecutor) Run(context.Context, string, time.Duration) executor.Outcome {
	return f.outcome
}

func newTestLoop(st *fakeStore, exec executor.Executor) *WorkerLoop {
	cfg := NewConfig(newFakeConfigurator())
	return NewWorkerLoop(st, exec, cfg, func() int64 { return 1000 }, WorkerLoopConfig{ID: "w1"}, discardLogger())
}

func TestWorkerLoopSuccessDoesNotIncrementAttempts(t *testing.T) {
	st := &fakeStore{toClaim: &job.Job{ID: "j1", Command: "echo hi", Attempts: 0, MaxRetries: 3}}
	exec := &fakeExecutor{outcome: executor.Outcome{Kind: executor.Success, Stdout: "hi"}}
	loop := newTestLoop(st, exec)

	loop.tick(context.Background())

	if len(st.patches) != 1 {
		t.Fatalf("expected 1 update, got %d", len(st.patches))
	}
	p := st.patches[0]
	if p.State != job.Completed {
		t.Fatalf("expected state completed, got %v", p.State)
	}
	if p.Attempts != nil {
		t.Fatalf("expected attempts left untouched on success, got %v", *p.Attempts)
	}
}

func TestWorkerLoopFailureAppliesRetryPolicy(t *testing.T) {
	st := &fakeStore{toClaim: &job.Job{ID: "j2", Command: "false", Attempts: 0, MaxRetries: 2}}
	exec := &fakeExecutor{outcome: executor.Outcome{Kind: executor.Failure, ExitCode: 1}}
	loop := newTestLoop(st, exec)

	loop.tick(context.Background())

	if len(st.patches) != 1 {
		t.Fatalf("expected 1 update, got %d", len(st.patches))
	}
	p := st.patches[0]
	if p.State != job.Pending {
		t.Fatalf("expected retry to pending, got %v", p.State)
	}
	if p.Attempts == nil || *p.Attempts != 1 {
		t.Fatalf("expected attempts=1, got %v", p.Attempts)
	}
	if p.NextRunAt == nil {
		t.Fatal("expected next_run_at to be set")
	}
}

func TestWorkerLoopExhaustedRetriesGoesDead(t *testing.T) {
	st := &fakeStore{toClaim: &job.Job{ID: "j3", Command: "false", Attempts: 0, MaxRetries: 0}}
	exec := &fakeExecutor{outcome: executor.Outcome{Kind: executor.Failure, ExitCode: 1}}
	loop := newTestLoop(st, exec)

	loop.tick(context.Background())

	p := st.patches[0]
	if p.State != job.Dead {
		t.Fatalf("expected dead, got %v", p.State)
	}
	if p.LastError == nil {
		t.Fatal("expected last_error to be recorded")
	}
}

func TestWorkerLoopTimeoutMessageAndSecondUpdate(t *testing.T) {
	timeoutSecs := 5
	st := &fakeStore{toClaim: &job.Job{ID: "j4", Command: "sleep 10", Attempts: 0, MaxRetries: 0, Timeout: &timeoutSecs}}
	exec := &fakeExecutor{outcome: executor.Outcome{Kind: executor.Timeout, Stdout: "partial"}}
	loop := newTestLoop(st, exec)

	loop.tick(context.Background())

	if len(st.patches) != 2 {
		t.Fatalf("expected 2 updates (state transition + output), got %d", len(st.patches))
	}
	first := st.patches[0]
	if first.LastError == nil || !startsWith(*first.LastError, "timeout after 5s") {
		t.Fatalf("expected timeout message, got %v", first.LastError)
	}
	second := st.patches[1]
	if second.State != job.Unknown {
		t.Fatalf("expected second update to not change state, got %v", second.State)
	}
	if second.LastStdout == nil || *second.LastStdout != "partial" {
		t.Fatalf("expected partial stdout persisted, got %v", second.LastStdout)
	}
}

func TestWorkerLoopNoPendingJobIsANoop(t *testing.T) {
	st := &fakeStore{}
	exec := &fakeExecutor{}
	loop := newTestLoop(st, exec)

	loop.tick(context.Background())

	if len(st.patches) != 0 {
		t.Fatalf("expected no updates, got %d", len(st.patches))
	}
}

func startsWith(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
