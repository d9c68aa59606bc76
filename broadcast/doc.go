// Package broadcast maintains a live JSON snapshot of job state and
// pushes it to connected WebSocket clients.
//
// A Broadcaster polls the Store on a fixed interval, builds a
// Snapshot, and sends it to every registered client — but only when
// the snapshot has actually changed since the last tick, so idle
// clients don't receive a steady stream of identical frames. A newly
// registered client is the one exception: it always receives the
// current snapshot immediately, regardless of whether it has changed.
package broadcast
