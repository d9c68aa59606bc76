package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/internal"

	"github.com/gorilla/websocket"
)

var (
	// ErrDoubleStarted is returned by Start if the Broadcaster is
	// already running.
	ErrDoubleStarted = errors.New("broadcast: double start")
	// ErrDoubleStopped is returned by Stop if the Broadcaster is not
	// running.
	ErrDoubleStopped = errors.New("broadcast: double stop")
)

const (
	stopped = iota
	started
)

// Broadcaster polls a Store on a fixed interval and fans the resulting
// Snapshot out to every registered WebSocket connection. It also
// applies inbound DLQ-retry requests received over those same
// connections.
type Broadcaster struct {
	state atomic.Int32

	reader      qc.Reader
	retentioner qc.Retentioner
	clock       qc.Clock
	interval    time.Duration
	log         *slog.Logger
	task        internal.TimerTask

	mu       sync.Mutex
	clients  map[*websocket.Conn]*sync.Mutex
	lastJSON []byte
}

// New creates a Broadcaster. It is not started automatically.
func New(reader qc.Reader, retentioner qc.Retentioner, clock qc.Clock, interval time.Duration, log *slog.Logger) *Broadcaster {
	if clock == nil {
		clock = qc.SystemClock
	}
	return &Broadcaster{
		reader:      reader,
		retentioner: retentioner,
		clock:       clock,
		interval:    interval,
		log:         log,
		clients:     make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Start begins the periodic poll-and-broadcast loop.
func (b *Broadcaster) Start(ctx context.Context) error {
	if !b.state.CompareAndSwap(stopped, started) {
		return ErrDoubleStarted
	}
	b.task.Start(ctx, b.tick, b.interval)
	return nil
}

// Stop stops the broadcast loop, waiting up to timeout for the current
// tick to finish.
func (b *Broadcaster) Stop(timeout time.Duration) error {
	if !b.state.CompareAndSwap(started, stopped) {
		return ErrDoubleStopped
	}
	done := b.task.Stop()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-timer.C:
		return nil
	}
}

// Register adds conn to the broadcast set and immediately sends it the
// current snapshot, bypassing the usual change-dedup so a new client
// never waits out a quiet period to see any data.
//
// Each connection gets its own write mutex, held for the duration of
// every WriteMessage against it: gorilla/websocket forbids concurrent
// writers on one connection, and this initial push can otherwise race
// a periodic tick or a TriggerNow call landing on the same connection.
func (b *Broadcaster) Register(ctx context.Context, conn *websocket.Conn) error {
	snap, err := buildSnapshot(ctx, b.reader, b.clock)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	writeMu := &sync.Mutex{}
	b.mu.Lock()
	b.clients[conn] = writeMu
	b.mu.Unlock()

	writeMu.Lock()
	defer writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Unregister removes conn from the broadcast set. It does not close
// conn.
func (b *Broadcaster) Unregister(conn *websocket.Conn) {
	b.mu.Lock()
	delete(b.clients, conn)
	b.mu.Unlock()
}

// TriggerNow runs one broadcast cycle immediately, outside the regular
// interval. Dashboard mutation endpoints call this after a write so
// clients don't wait a full interval to see the effect of their own
// action.
func (b *Broadcaster) TriggerNow(ctx context.Context) {
	b.tick(ctx)
}

func (b *Broadcaster) tick(ctx context.Context) {
	snap, err := buildSnapshot(ctx, b.reader, b.clock)
	if err != nil {
		b.log.Error("snapshot build failed", "err", err)
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		b.log.Error("snapshot marshal failed", "err", err)
		return
	}

	b.mu.Lock()
	unchanged := bytes.Equal(data, b.lastJSON)
	b.lastJSON = data
	clients := make(map[*websocket.Conn]*sync.Mutex, len(b.clients))
	for c, writeMu := range b.clients {
		clients[c] = writeMu
	}
	b.mu.Unlock()

	if unchanged {
		return
	}
	for c, writeMu := range clients {
		writeMu.Lock()
		err := c.WriteMessage(websocket.TextMessage, data)
		writeMu.Unlock()
		if err != nil {
			b.log.Debug("dropping broadcast client", "err", err)
			b.Unregister(c)
		}
	}
}
