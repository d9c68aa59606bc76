// Package dashboard is the thin HTTP/WS adapter between the Store and
// the browser-side dashboard: it serves read-only job and status
// queries, accepts DLQ retry requests, and upgrades /ws connections to
// the Broadcaster's live snapshot stream.
//
// The front-end templates and browser rendering themselves are out of
// scope here; this package only implements the wire contract.
package dashboard
