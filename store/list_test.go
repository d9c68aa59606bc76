package store_test

import (
	"context"
	"testing"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/job"
)

func TestListJobsFiltersByState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustSave(t, s, &job.Job{ID: "a", Command: "true"})
	mustSave(t, s, &job.Job{ID: "b", Command: "true"})
	if _, err := s.ClaimOnePending(ctx, 0); err != nil {
		t.Fatal(err)
	}

	pending, err := s.ListJobs(ctx, qc.ListFilter{State: job.Pending})
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending job, got %d", len(pending))
	}

	all, err := s.ListJobs(ctx, qc.ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 jobs total, got %d", len(all))
	}
}

func TestStatsSummaryCountsByState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustSave(t, s, &job.Job{ID: "a", Command: "true"})
	mustSave(t, s, &job.Job{ID: "b", Command: "true"})
	if _, err := s.ClaimOnePending(ctx, 0); err != nil {
		t.Fatal(err)
	}

	summary, err := s.StatsSummary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 2 || summary.Pending != 1 || summary.Processing != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestConfigGetSetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetConfig(ctx, "backoff_base"); err != qc.ErrNotFound {
		t.Fatalf("expected ErrNotFound before set, got %v", err)
	}

	if err := s.SetConfig(ctx, "backoff_base", "3"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetConfig(ctx, "backoff_base")
	if err != nil {
		t.Fatal(err)
	}
	if v != "3" {
		t.Fatalf("expected 3, got %s", v)
	}

	if err := s.SetConfig(ctx, "backoff_base", "4"); err != nil {
		t.Fatal(err)
	}
	v, err = s.GetConfig(ctx, "backoff_base")
	if err != nil {
		t.Fatal(err)
	}
	if v != "4" {
		t.Fatalf("expected overwritten value 4, got %s", v)
	}
}
