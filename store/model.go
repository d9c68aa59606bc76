package store

import (
	"time"

	"github.com/ruubhagat/queuectl/job"
	"github.com/uptrace/bun"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`

	ID         string    `bun:"id,pk"`
	Command    string    `bun:"command,notnull"`
	State      job.State `bun:"state,notnull"`
	Attempts   int       `bun:"attempts,notnull,default:0"`
	MaxRetries int       `bun:"max_retries,notnull,default:0"`
	Priority   int       `bun:"priority,notnull,default:0"`
	Timeout    *int      `bun:"timeout"`

	NextRunAt int64 `bun:"next_run_at,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	LastError  *string `bun:"last_error"`
	LastStdout *string `bun:"last_stdout"`
	LastStderr *string `bun:"last_stderr"`
}

func (jm *jobModel) toJob() *job.Job {
	return &job.Job{
		ID:         jm.ID,
		Command:    jm.Command,
		State:      jm.State,
		Attempts:   jm.Attempts,
		MaxRetries: jm.MaxRetries,
		Priority:   jm.Priority,
		Timeout:    jm.Timeout,
		NextRunAt:  jm.NextRunAt,
		CreatedAt:  jm.CreatedAt,
		UpdatedAt:  jm.UpdatedAt,
		LastError:  jm.LastError,
		LastStdout: jm.LastStdout,
		LastStderr: jm.LastStderr,
	}
}

func fromJob(j *job.Job) *jobModel {
	now := time.Now().UTC()
	return &jobModel{
		ID:         j.ID,
		Command:    j.Command,
		State:      job.Pending,
		MaxRetries: j.MaxRetries,
		Priority:   j.Priority,
		Timeout:    j.Timeout,
		NextRunAt:  j.NextRunAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

type configModel struct {
	bun.BaseModel `bun:"table:config"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

type eventModel struct {
	bun.BaseModel `bun:"table:job_events"`

	Seq       int64     `bun:"seq,pk,autoincrement"`
	JobID     string    `bun:"job_id,notnull"`
	Type      string    `bun:"event_type,notnull"`
	Message   *string   `bun:"message"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (em *eventModel) toEvent() *job.Event {
	return &job.Event{
		Seq:       em.Seq,
		JobID:     em.JobID,
		Type:      em.Type,
		Message:   em.Message,
		CreatedAt: em.CreatedAt,
	}
}
