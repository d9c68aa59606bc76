package store

import (
	"context"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/job"
)

// UpdateJobState implements queuectl.Claimer.
//
// Unlike ClaimOnePending, this update carries no precondition on the
// job's current state: the caller (WorkerLoop, a DLQ retry, an admin
// tool) is trusted to only change fields that make sense for the
// job's situation. The event insert is deliberately best-effort: by
// the time this is called the command has already run, and losing the
// audit trail entry is far cheaper than losing that result by failing
// the whole update over it.
func (s *Store) UpdateJobState(ctx context.Context, id string, patch qc.JobPatch) error {
	now := nowUTC()
	q := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("updated_at = ?", now).
		Where("id = ?", id)

	if patch.State != job.Unknown {
		q = q.Set("state = ?", patch.State)
	}
	if patch.Attempts != nil {
		q = q.Set("attempts = ?", *patch.Attempts)
	}
	if patch.NextRunAt != nil {
		q = q.Set("next_run_at = ?", *patch.NextRunAt)
	}
	if patch.Timeout != nil {
		q = q.Set("timeout = ?", *patch.Timeout)
	}
	if patch.Priority != nil {
		q = q.Set("priority = ?", *patch.Priority)
	}
	if patch.LastError != nil {
		q = q.Set("last_error = ?", *patch.LastError)
	}
	if patch.LastStdout != nil {
		q = q.Set("last_stdout = ?", *patch.LastStdout)
	}
	if patch.LastStderr != nil {
		q = q.Set("last_stderr = ?", *patch.LastStderr)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return qc.ErrNotFound
	}

	eventType := job.EventUpdated
	if patch.State != job.Unknown {
		eventType = job.StateEventType(patch.State)
	}
	message := patch.LastError
	if message == nil {
		message = patch.LastStderr
	}
	if insertErr := s.insertEvent(ctx, id, eventType, message); insertErr != nil {
		_ = insertErr // best-effort, see doc comment above
	}
	return nil
}
