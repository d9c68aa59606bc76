package store

import (
	"context"
	"database/sql"
	"fmt"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/job"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed implementation of queuectl.Store.
type Store struct {
	db *bun.DB
}

var _ qc.Store = (*Store)(nil)

// Open opens (creating if necessary) the SQLite database at path,
// configures it for single-writer WAL operation, and initializes its
// schema.
//
// SQLite allows only one writer at a time; rather than fight the
// driver's connection pool over that, the pool is capped at one
// connection, matching the pattern used throughout this codebase's
// SQLite tests.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := InitSchema(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewFromDB wraps an already-open, already-initialized *bun.DB. It is
// primarily useful in tests that need direct access to the underlying
// handle.
func NewFromDB(db *bun.DB) *Store {
	return &Store{db: db}
}

// Close implements queuectl.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveJob implements queuectl.Submitter.
func (s *Store) SaveJob(ctx context.Context, j *job.Job) error {
	model := fromJob(j)
	_, err := s.db.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return qc.ErrDuplicateID
		}
		return err
	}
	j.State = model.State
	j.CreatedAt = model.CreatedAt
	j.UpdatedAt = model.UpdatedAt
	return nil
}

// GetJob implements queuectl.Reader.
func (s *Store) GetJob(ctx context.Context, id string) (*job.Job, error) {
	model := new(jobModel)
	err := s.db.NewSelect().Model(model).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, qc.ErrNotFound
		}
		return nil, err
	}
	return model.toJob(), nil
}

// ListJobs implements queuectl.Reader.
func (s *Store) ListJobs(ctx context.Context, filter qc.ListFilter) ([]*job.Job, error) {
	var models []*jobModel
	q := s.db.NewSelect().Model(&models).Order("priority DESC", "created_at ASC")
	if filter.State != job.Unknown {
		q = q.Where("state = ?", filter.State)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	jobs := make([]*job.Job, len(models))
	for i, m := range models {
		jobs[i] = m.toJob()
	}
	return jobs, nil
}

// ListJobsPaginated implements queuectl.Reader.
func (s *Store) ListJobsPaginated(ctx context.Context, state job.State, page, perPage int) ([]*job.Job, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	var models []*jobModel
	q := s.db.NewSelect().Model(&models).Order("priority DESC", "created_at ASC")
	countQ := s.db.NewSelect().Model((*jobModel)(nil))
	if state != job.Unknown {
		q = q.Where("state = ?", state)
		countQ = countQ.Where("state = ?", state)
	}

	total, err := countQ.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	if err := q.Limit(perPage).Offset(offset).Scan(ctx); err != nil {
		return nil, 0, err
	}
	jobs := make([]*job.Job, len(models))
	for i, m := range models {
		jobs[i] = m.toJob()
	}
	return jobs, total, nil
}

// StatsSummary implements queuectl.Reader.
func (s *Store) StatsSummary(ctx context.Context) (qc.StatsSummary, error) {
	type row struct {
		State job.State `bun:"state"`
		Count int       `bun:"count"`
	}
	var rows []row
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("state, count(*) AS count").
		Group("state").
		Scan(ctx, &rows)
	if err != nil {
		return qc.StatsSummary{}, err
	}
	var summary qc.StatsSummary
	for _, r := range rows {
		summary.Total += r.Count
		switch r.State {
		case job.Pending:
			summary.Pending = r.Count
		case job.Processing:
			summary.Processing = r.Count
		case job.Completed:
			summary.Completed = r.Count
		case job.Dead:
			summary.Dead = r.Count
		}
	}
	return summary, nil
}

// GetJobEvents implements queuectl.Reader.
func (s *Store) GetJobEvents(ctx context.Context, id string, limit int) ([]*job.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []*eventModel
	err := s.db.NewSelect().
		Model(&models).
		Where("job_id = ?", id).
		Order("seq DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	events := make([]*job.Event, len(models))
	for i, m := range models {
		events[i] = m.toEvent()
	}
	return events, nil
}

// GetConfig implements queuectl.Configurator.
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	model := new(configModel)
	err := s.db.NewSelect().Model(model).Where("key = ?", key).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", qc.ErrNotFound
		}
		return "", err
	}
	return model.Value, nil
}

// SetConfig implements queuectl.Configurator.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.NewInsert().
		Model(&configModel{Key: key, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}

// RetryDead implements queuectl.Retentioner.
func (s *Store) RetryDead(ctx context.Context, id string) error {
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("attempts = 0").
		Set("next_run_at = 0").
		Set("last_error = NULL").
		Set("last_stdout = NULL").
		Set("last_stderr = NULL").
		Set("updated_at = ?", nowUTC()).
		Where("id = ?", id).
		Where("state = ?", job.Dead).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		exists, existsErr := s.jobExists(ctx, id)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return qc.ErrNotFound
		}
		return qc.ErrJobNotDead
	}
	_ = s.insertEvent(ctx, id, job.StateEventType(job.Pending), nil)
	return nil
}

// DeleteCompletedBefore implements queuectl.Retentioner.
func (s *Store) DeleteCompletedBefore(ctx context.Context, before int64) (int, error) {
	res, err := s.db.NewDelete().
		Model((*jobModel)(nil)).
		Where("state = ?", job.Completed).
		Where("updated_at < ?", unixToTime(before)).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return int(getAffected(res)), nil
}

func (s *Store) jobExists(ctx context.Context, id string) (bool, error) {
	exists, err := s.db.NewSelect().Model((*jobModel)(nil)).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) insertEvent(ctx context.Context, jobID, eventType string, message *string) error {
	_, err := s.db.NewInsert().Model(&eventModel{
		JobID:   jobID,
		Type:    eventType,
		Message: message,
	}).Exec(ctx)
	return err
}
