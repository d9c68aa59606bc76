package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The dashboard is typically served from the same origin or from a
	// local dev server; origin checking is delegated to the shared
	// token gate instead.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS implements the /ws snapshot stream. The handshake is gated by the
// configured token, if any; once accepted, inbound mutation messages
// are never re-checked against it (spec.md §9's preserved open
// question).
//
// gorilla/websocket completes the HTTP 101 switch inside Upgrade
// itself, leaving no later point to reject the connection at the
// protocol level the way the original's accept-then-close(4001) can.
// The token is checked before Upgrade is called instead, refusing the
// connection with a plain 401 at the HTTP layer.
func (d *Dashboard) WS(c *gin.Context) {
	if !d.auth.Check(c.Query("token")) {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Default().Debug("ws upgrade failed", "err", err)
		return
	}

	ctx := c.Request.Context()
	if err := d.broadcaster.Register(ctx, conn); err != nil {
		_ = conn.Close()
		return
	}
	d.broadcaster.ReadInbound(ctx, conn)
}
