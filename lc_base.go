package queuectl

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/ruubhagat/queuectl/internal"
)

const (
	stopped = iota
	started
)

var (
	// ErrDoubleStarted is returned when Start is called on a background
	// component that has already been started.
	ErrDoubleStarted = errors.New("double start")

	// ErrDoubleStopped is returned when Stop is called on a background
	// component that is not currently running.
	ErrDoubleStopped = errors.New("double stop")

	// ErrStopTimeout is returned when a background component fails to
	// shut down within the provided timeout during Stop.
	//
	// The component may still be terminating in the background.
	ErrStopTimeout = errors.New("stop timeout")
)

// lcBase gives WorkerLoop, Supervisor and RetentionWorker the same
// strict start-once/stop-once lifecycle.
type lcBase struct {
	state atomic.Int32
}

func (lb *lcBase) tryStart() error {
	if !lb.state.CompareAndSwap(stopped, started) {
		return ErrDoubleStarted
	}
	return nil
}

func (lb *lcBase) tryStop(timeout time.Duration, df internal.DoneFunc) error {
	if !lb.state.CompareAndSwap(started, stopped) {
		return ErrDoubleStopped
	}
	done := df()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-timer.C:
		return ErrStopTimeout
	}
}
