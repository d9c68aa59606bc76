package queuectl

import "time"

// Clock returns the current time as epoch seconds. It exists so
// WorkerLoop, Claimer and the retry policy can be driven by a fixed
// time in tests instead of wall-clock time.
type Clock func() int64

// SystemClock is the production Clock, backed by time.Now.
func SystemClock() int64 {
	return time.Now().Unix()
}
