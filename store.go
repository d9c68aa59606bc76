package queuectl

import (
	"context"

	"github.com/ruubhagat/queuectl/job"
)

// JobPatch describes a partial update to a Job's mutable fields. A nil
// field is left unchanged; a zero-value State leaves the state
// unchanged too (the update is then recorded as an "updated" event
// instead of a "state:<...>" one).
type JobPatch struct {
	State      job.State
	Attempts   *int
	NextRunAt  *int64
	Timeout    *int
	Priority   *int
	LastError  *string
	LastStdout *string
	LastStderr *string
}

// ListFilter narrows ListJobs to a subset of jobs. ListJobsPaginated
// takes its state filter and page bounds as separate arguments instead.
type ListFilter struct {
	State  job.State // zero value means no filter
	Offset int
	Limit  int // 0 means unlimited
}

// StatsSummary is a point-in-time count of jobs by state.
type StatsSummary struct {
	Pending    int
	Processing int
	Completed  int
	Dead       int
	Total      int
}

// Submitter accepts new jobs into the store.
type Submitter interface {
	// SaveJob inserts j. It returns ErrDuplicateID if j.ID already
	// exists.
	SaveJob(ctx context.Context, j *job.Job) error
}

// Claimer atomically hands pending jobs to workers.
type Claimer interface {
	// ClaimOnePending selects the single highest-priority, oldest
	// eligible pending job (NextRunAt <= now) and transitions it to
	// Processing in one atomic step. It returns nil, nil if no job is
	// eligible.
	ClaimOnePending(ctx context.Context, now int64) (*job.Job, error)

	// UpdateJobState applies patch to the job identified by id. It is
	// the sole mechanism for leaving the Processing state. The
	// associated event insert is best-effort: a failure to record the
	// event never fails the update.
	UpdateJobState(ctx context.Context, id string, patch JobPatch) error
}

// Reader serves read-only queries over the job store.
type Reader interface {
	GetJob(ctx context.Context, id string) (*job.Job, error)
	ListJobs(ctx context.Context, filter ListFilter) ([]*job.Job, error)

	// ListJobsPaginated returns the page-th (1-indexed) page of perPage
	// jobs optionally filtered by state, using the same ordering as
	// ListJobs, along with the total matching row count.
	ListJobsPaginated(ctx context.Context, state job.State, page, perPage int) ([]*job.Job, int, error)

	StatsSummary(ctx context.Context) (StatsSummary, error)

	// GetJobEvents returns up to limit events for id, newest first.
	GetJobEvents(ctx context.Context, id string, limit int) ([]*job.Event, error)
}

// Configurator stores operator-tunable runtime settings (e.g. backoff
// base, default max retries) as string key/value pairs.
type Configurator interface {
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

// Retentioner manages terminal jobs outside the normal lifecycle:
// requeuing dead jobs and pruning old completed ones.
type Retentioner interface {
	// RetryDead moves a Dead job back to Pending, resetting Attempts to
	// zero and NextRunAt to immediately eligible. It returns
	// ErrJobNotDead if the job is not currently Dead.
	RetryDead(ctx context.Context, id string) error

	// DeleteCompletedBefore removes Completed jobs whose UpdatedAt is
	// older than the given epoch second, returning the count removed.
	DeleteCompletedBefore(ctx context.Context, before int64) (int, error)
}

// Store is the full persistence surface used by queuectl: job
// submission, claiming, querying, configuration and retention, all
// backed by a single SQLite database.
type Store interface {
	Submitter
	Claimer
	Reader
	Configurator
	Retentioner

	// Close releases the underlying database handle.
	Close() error
}
