// Package job defines the persistent representation of a unit of work
// managed by queuectl.
//
// A Job is a shell command plus retry, priority, scheduling and timeout
// attributes, together with the state-machine fields (State, Attempts,
// NextRunAt) that the Store and WorkerLoop maintain as the job moves
// through its lifecycle.
//
// Job values are typically returned by Store reads and passed back to
// the Store for state transitions. Job is not intended to be
// constructed manually by user code outside of submission; its fields
// reflect the authoritative state held by the backing store.
package job
