package job

import "fmt"

// State represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	pending    -> processing
//	processing -> completed
//	processing -> pending  (retry, via RetryPolicy)
//	processing -> dead     (DLQ, via RetryPolicy)
//	dead       -> pending  (explicit DLQ retry)
//
// State is backed by a string rather than an integer because it is the
// literal value persisted in the jobs table and exchanged over the
// dashboard's JSON/WS protocol. Failed is reserved for a possible future
// terminal-but-non-DLQ state; the engine never writes it.
type State string

const (
	// Unknown represents an unspecified or invalid job state. It is the
	// zero value of State and is never persisted.
	Unknown State = ""

	// Pending indicates the job is eligible for claiming once NextRunAt
	// has elapsed.
	Pending State = "pending"

	// Processing indicates the job has been claimed and is currently
	// owned by exactly one WorkerLoop.
	Processing State = "processing"

	// Completed indicates the job ran successfully. Terminal.
	Completed State = "completed"

	// Failed is reserved for a future terminal-but-non-DLQ state.
	// The engine never writes it.
	Failed State = "failed"

	// Dead indicates the job exhausted its retries and is parked in the
	// dead-letter queue. Terminal until an explicit DLQ retry.
	Dead State = "dead"
)

// IsTerminal reports whether a job in this state will not be picked up
// again without an explicit external action (a DLQ retry).
func (s State) IsTerminal() bool {
	return s == Completed || s == Dead
}

// ParseState converts a string representation of a state into a State
// value. An error is returned for unrecognized strings.
func ParseState(s string) (State, error) {
	switch State(s) {
	case Pending, Processing, Completed, Failed, Dead, Unknown:
		return State(s), nil
	default:
		return Unknown, fmt.Errorf("unknown job state: %s", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// String returns the canonical string representation of the state.
func (s State) String() string {
	if s == Unknown {
		return "unknown"
	}
	return string(s)
}
