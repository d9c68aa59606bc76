package broadcast

import (
	"context"
	"math"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/job"
)

// Status summarizes queue state for the dashboard: per-state counts
// plus the mean attempt count across all jobs.
type Status struct {
	Pending     int     `json:"pending"`
	Processing  int     `json:"processing"`
	Completed   int     `json:"completed"`
	Dead        int     `json:"dead"`
	Total       int     `json:"total"`
	AvgAttempts float64 `json:"avg_attempts"`
	Timestamp   int64   `json:"timestamp"`
}

// Snapshot is the JSON document pushed to every connected WebSocket
// client.
type Snapshot struct {
	Type   string     `json:"type"`
	Jobs   []*job.Job `json:"jobs"`
	Status Status     `json:"status"`
}

// BuildStatus computes the summary+avg_attempts+timestamp block shared
// by the snapshot stream and the /api/status HTTP endpoint.
func BuildStatus(ctx context.Context, reader qc.Reader, now qc.Clock) (Status, error) {
	summary, err := reader.StatsSummary(ctx)
	if err != nil {
		return Status{}, err
	}
	jobs, err := reader.ListJobs(ctx, qc.ListFilter{})
	if err != nil {
		return Status{}, err
	}

	var sumAttempts int
	for _, j := range jobs {
		sumAttempts += j.Attempts
	}
	avg := 0.0
	if len(jobs) > 0 {
		avg = math.Round(float64(sumAttempts)/float64(len(jobs))*100) / 100
	}

	return Status{
		Pending:     summary.Pending,
		Processing:  summary.Processing,
		Completed:   summary.Completed,
		Dead:        summary.Dead,
		Total:       summary.Total,
		AvgAttempts: avg,
		Timestamp:   now(),
	}, nil
}

func buildSnapshot(ctx context.Context, reader qc.Reader, now qc.Clock) (Snapshot, error) {
	status, err := BuildStatus(ctx, reader, now)
	if err != nil {
		return Snapshot{}, err
	}
	jobs, err := reader.ListJobs(ctx, qc.ListFilter{})
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Type: "snapshot", Jobs: jobs, Status: status}, nil
}
