package broadcast

import (
	"context"
	"testing"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/job"
)

type fakeReader struct {
	jobs    []*job.Job
	summary qc.StatsSummary
}

func (f *fakeReader) GetJob(context.Context, string) (*job.Job, error) { return nil, qc.ErrNotFound }

func (f *fakeReader) ListJobs(context.Context, qc.ListFilter) ([]*job.Job, error) {
	return f.jobs, nil
}

func (f *fakeReader) ListJobsPaginated(context.Context, job.State, int, int) ([]*job.Job, int, error) {
	return f.jobs, len(f.jobs), nil
}

func (f *fakeReader) StatsSummary(context.Context) (qc.StatsSummary, error) {
	return f.summary, nil
}

func (f *fakeReader) GetJobEvents(context.Context, string, int) ([]*job.Event, error) {
	return nil, nil
}

func TestBuildStatusAvgAttemptsEmpty(t *testing.T) {
	r := &fakeReader{}
	status, err := BuildStatus(context.Background(), r, func() int64 { return 42 })
	if err != nil {
		t.Fatal(err)
	}
	if status.AvgAttempts != 0 {
		t.Fatalf("expected 0 avg attempts for empty queue, got %v", status.AvgAttempts)
	}
	if status.Timestamp != 42 {
		t.Fatalf("expected timestamp 42, got %d", status.Timestamp)
	}
}

func TestBuildStatusAvgAttemptsRounded(t *testing.T) {
	r := &fakeReader{
		jobs: []*job.Job{
			{ID: "a", Attempts: 1},
			{ID: "b", Attempts: 2},
			{ID: "c", Attempts: 2},
		},
	}
	status, err := BuildStatus(context.Background(), r, func() int64 { return 0 })
	if err != nil {
		t.Fatal(err)
	}
	// (1+2+2)/3 = 1.666... rounds to 1.67
	if status.AvgAttempts != 1.67 {
		t.Fatalf("expected 1.67, got %v", status.AvgAttempts)
	}
}

func TestBuildStatusCarriesSummaryCounts(t *testing.T) {
	r := &fakeReader{summary: qc.StatsSummary{Pending: 3, Processing: 1, Completed: 5, Dead: 2, Total: 11}}
	status, err := BuildStatus(context.Background(), r, func() int64 { return 0 })
	if err != nil {
		t.Fatal(err)
	}
	if status.Pending != 3 || status.Processing != 1 || status.Completed != 5 || status.Dead != 2 || status.Total != 11 {
		t.Fatalf("summary counts not carried through: %+v", status)
	}
}
