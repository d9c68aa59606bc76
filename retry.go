package queuectl

import "math"

// RetryOutcome indicates what should happen to a job after a failed
// execution.
type RetryOutcome int

const (
	// RetryPending means the job should be returned to Pending with an
	// incremented attempt count and a future NextRunAt.
	RetryPending RetryOutcome = iota

	// RetryDeadLetter means the job has exhausted its retries and
	// should move to Dead.
	RetryDeadLetter
)

// RetryDecision is the result of applying the retry policy to a failed
// execution.
type RetryDecision struct {
	Outcome   RetryOutcome
	Attempts  int   // the new attempt count
	NextRunAt int64 // epoch seconds; meaningful only when Outcome is RetryPending
}

// DecideRetry computes the next state for a job that just failed its
// (attempts+1)-th execution attempt, given maxRetries additional
// attempts are permitted beyond the first.
//
// The backoff delay is backoffBase^(attempts+1) seconds, i.e. the base
// raised to the new attempt count, truncated to whole seconds and applied with no
// jitter: the decision is a pure function of its inputs, which keeps it
// deterministic and reproducible in tests.
func DecideRetry(attempts, maxRetries int, backoffBase float64, now int64) RetryDecision {
	next := attempts + 1
	if next > maxRetries {
		return RetryDecision{
			Outcome:  RetryDeadLetter,
			Attempts: next,
		}
	}
	delay := math.Pow(backoffBase, float64(next))
	return RetryDecision{
		Outcome:   RetryPending,
		Attempts:  next,
		NextRunAt: now + int64(delay),
	}
}
