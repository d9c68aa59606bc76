package queuectl

import "errors"

var (
	// ErrDuplicateID is returned by Submitter.SaveJob when a job with the
	// same ID already exists.
	ErrDuplicateID = errors.New("queuectl: duplicate job id")

	// ErrNotFound is returned when a job, config key or other record does
	// not exist.
	ErrNotFound = errors.New("queuectl: not found")

	// ErrStoreUnavailable names lower-level storage failures (connection,
	// disk, driver errors) that are not specific to one record. The
	// SQLite store in package store does not return it: it returns such
	// driver errors as they are, unwrapped.
	ErrStoreUnavailable = errors.New("queuectl: store unavailable")

	// ErrJobNotDead is returned by Retentioner.RetryDead when the target
	// job is not currently in the Dead state.
	ErrJobNotDead = errors.New("queuectl: job is not dead")

	// ErrBadState names a requested state transition that does not apply
	// to the job's current state. No operation in this module returns it;
	// UpdateJobState applies its patch without checking the current state.
	ErrBadState = errors.New("queuectl: bad state transition")
)
