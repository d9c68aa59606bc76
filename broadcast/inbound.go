package broadcast

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type inboundMessage struct {
	Type  string `json:"type"`
	JobID string `json:"job_id"`
}

// ReadInbound blocks reading text frames from conn until it closes or
// ctx is canceled, applying any recognised message and otherwise
// ignoring it silently. Callers run this in its own goroutine per
// connection, alongside Register.
func (b *Broadcaster) ReadInbound(ctx context.Context, conn *websocket.Conn) {
	// Closing conn on cancellation unblocks the pending ReadMessage.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			b.Unregister(conn)
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type != "retry" || msg.JobID == "" {
			continue
		}
		if err := b.retentioner.RetryDead(ctx, msg.JobID); err != nil {
			b.log.Debug("ws retry rejected", "job_id", msg.JobID, "err", err)
			continue
		}
		b.TriggerNow(ctx)
	}
}
