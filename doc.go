// Package queuectl implements a durable, single-node job queue backed
// by SQLite: jobs are shell commands with priority, retry and timeout
// attributes, claimed one at a time by one or more WorkerLoops and
// executed by an Executor.
//
// A Job moves through a small state machine:
//
//	pending    -> processing   (Store.ClaimOnePending)
//	processing -> completed    (successful execution)
//	processing -> pending      (failed execution, retries remain)
//	processing -> dead         (failed execution, retries exhausted)
//	dead       -> pending      (explicit DLQ retry)
//
// The Store is the single source of truth for this state machine;
// WorkerLoop and Supervisor only drive it forward by calling
// ClaimOnePending and UpdateJobState. Concurrency safety comes from
// the claim protocol being one write-locked database transaction ending
// in a conditional update guarded on state = pending, not from any
// lock held in process memory, so any number of WorkerLoops
// can run against the same Store, in the same process or many.
//
// The broadcast and dashboard packages layer a live view and an HTTP/WS
// control surface on top of the same Store; they observe and mutate
// job state but never bypass it.
package queuectl
