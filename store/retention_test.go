package store_test

import (
	"context"
	"testing"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/job"
)

func TestRetryDeadRequiresDeadState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustSave(t, s, &job.Job{ID: "a", Command: "true"})

	if err := s.RetryDead(ctx, "a"); err != qc.ErrJobNotDead {
		t.Fatalf("expected ErrJobNotDead, got %v", err)
	}
}

func TestRetryDeadResetsJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustSave(t, s, &job.Job{ID: "a", Command: "true", MaxRetries: 0})

	claimed, err := s.ClaimOnePending(ctx, 0)
	if err != nil || claimed == nil {
		t.Fatalf("claim failed: %v", err)
	}
	attempts := 1
	if err := s.UpdateJobState(ctx, "a", qc.JobPatch{State: job.Dead, Attempts: &attempts}); err != nil {
		t.Fatal(err)
	}

	if err := s.RetryDead(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetJob(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Pending || got.Attempts != 0 || got.NextRunAt != 0 {
		t.Fatalf("expected reset pending job, got %+v", got)
	}
}

func TestDeleteCompletedBeforeOnlyTouchesCompleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustSave(t, s, &job.Job{ID: "a", Command: "true"})
	mustSave(t, s, &job.Job{ID: "b", Command: "true"})

	claimed, err := s.ClaimOnePending(ctx, 0)
	if err != nil || claimed == nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := s.UpdateJobState(ctx, claimed.ID, qc.JobPatch{State: job.Completed}); err != nil {
		t.Fatal(err)
	}

	n, err := s.DeleteCompletedBefore(ctx, 9999999999)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected to delete 1 completed job, got %d", n)
	}

	all, err := s.ListJobs(ctx, qc.ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 job remaining, got %d", len(all))
	}
}
