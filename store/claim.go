package store

import (
	"context"
	"database/sql"

	"github.com/ruubhagat/queuectl/job"
	"github.com/uptrace/bun"
)

// ClaimOnePending implements queuectl.Claimer.
//
// It runs as one hand-written transaction, using a dedicated
// connection (bun.Conn) rather than bun's ORM-level transaction
// helpers, because the protocol is deliberately BEGIN IMMEDIATE: under
// SQLite's default BEGIN DEFERRED, two connections can both acquire a
// read lock and then race for the write lock, turning the second
// writer's commit into SQLITE_BUSY instead of a clean "someone else
// already claimed it." Acquiring the write lock up front makes that
// race resolve as blocking, not failing.
func (s *Store) ClaimOnePending(ctx context.Context, now int64) (*job.Job, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return nil, err
	}

	id, err := claimCandidate(ctx, conn, now)
	if err != nil {
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	res, err := conn.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Processing).
		Set("updated_at = ?", unixToTime(now)).
		Where("id = ?", id).
		Where("state = ?", job.Pending).
		Exec(ctx)
	if err != nil {
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
		return nil, err
	}
	if !isAffected(res) {
		// Lost the race between the candidate select and this update
		// (should not happen under BEGIN IMMEDIATE, but the check costs
		// nothing and keeps the protocol correct even if isolation is
		// ever relaxed).
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
		return nil, nil
	}

	model := new(jobModel)
	if err := conn.NewSelect().Model(model).Where("id = ?", id).Scan(ctx); err != nil {
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
		return nil, err
	}

	if _, err := conn.NewInsert().Model(&eventModel{
		JobID: id,
		Type:  job.EventClaimed,
	}).Exec(ctx); err != nil {
		// Best-effort: the claim itself is already correct, losing the
		// audit trail entry for it is not worth failing the claim over.
		_ = err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return nil, err
	}

	return model.toJob(), nil
}

// claimCandidate selects the id of the single best eligible pending
// job: highest priority first, then oldest by created_at. It returns
// sql.ErrNoRows if nothing is eligible.
func claimCandidate(ctx context.Context, conn bun.Conn, now int64) (string, error) {
	var id string
	err := conn.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("state = ?", job.Pending).
		Where("next_run_at <= ?", now).
		Order("priority DESC", "created_at ASC").
		Limit(1).
		Scan(ctx, &id)
	if err != nil {
		return "", err
	}
	return id, nil
}
