package job

import "time"

// Job represents one unit of work tracked by the Store.
//
// ID is client-supplied and unique; the Store never generates one.
// Command is interpreted by a system shell at execution time.
//
// Attempts counts failed executions only — a successful run does not
// increment it. MaxRetries bounds the number of additional attempts
// permitted after the first failure; total permitted executions is
// MaxRetries+1.
//
// NextRunAt is meaningful only while State is Pending: it is the epoch
// second before which the job is not eligible for claiming.
//
// CreatedAt is immutable after insert. UpdatedAt advances on every
// state-changing update.
//
// LastError, LastStdout and LastStderr are nil until the job has been
// executed at least once.
type Job struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	State      State  `json:"state"`
	Attempts   int    `json:"attempts"`
	MaxRetries int    `json:"max_retries"`
	Priority   int    `json:"priority"`
	Timeout    *int   `json:"timeout,omitempty"` // seconds; nil means no timeout

	NextRunAt int64 `json:"next_run_at"` // epoch seconds; 0 = immediately eligible

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LastError  *string `json:"last_error,omitempty"`
	LastStdout *string `json:"last_stdout,omitempty"`
	LastStderr *string `json:"last_stderr,omitempty"`
}
