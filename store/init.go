package store

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

func createJobsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*jobModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createClaimIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_claim").
		Column("state", "priority", "next_run_at", "created_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func createStateUpdatedIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state_updated").
		Column("state", "updated_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func createConfigTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*configModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createEventsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*eventModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createEventsJobIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*eventModel)(nil)).
		Index("idx_job_events_job").
		Column("job_id", "seq").
		IfNotExists().
		Exec(ctx)
	return err
}

func initSchema(ctx context.Context, db *bun.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	steps := []func(context.Context, bun.IDB) error{
		createJobsTable,
		createClaimIndex,
		createStateUpdatedIndex,
		createConfigTable,
		createEventsTable,
		createEventsJobIndex,
	}
	for _, step := range steps {
		if err := step(ctx, tx); err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

// InitSchema creates the jobs, config and job_events tables and their
// indexes inside a single transaction. It is idempotent: existing
// tables and indexes are left untouched.
//
// The caller is responsible for providing a properly configured
// *bun.DB (WAL mode, a single open connection).
func InitSchema(ctx context.Context, db *bun.DB) error {
	return initSchema(ctx, db)
}
