// Package store is the SQLite-backed implementation of queuectl.Store.
//
// It keeps three tables: jobs, config and job_events. State transitions
// go through ClaimOnePending, UpdateJobState and RetryDead (dead back to
// pending). ClaimOnePending uses bun's query builder over a single
// physical connection (bun.Conn) so that the claim protocol's BEGIN
// IMMEDIATE / conditional UPDATE / COMMIT sequence runs as one real
// SQLite transaction rather than a sequence of pool-borrowed
// statements. UpdateJobState and RetryDead run on the pooled handle as
// one UPDATE statement followed by a separate, best-effort event insert.
package store
