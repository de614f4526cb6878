// Package live is the real-time channel of a party: one WebSocket per
// participant, inbound command envelopes, fan-out of state changes to
// every attached connection.
package live

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tourandot/server/internal/app"
	"github.com/tourandot/server/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// ClosePartyNotFound is the close code for attaches naming an unknown
// party, distinct from normal closure so clients can tell "gone" from
// "dropped".
const ClosePartyNotFound = 4004

type Controller struct {
	Registry  *app.PartyRegistry
	ReadLimit int64
}

func NewController(registry *app.PartyRegistry, readLimit int64) *Controller {
	return &Controller{Registry: registry, ReadLimit: readLimit}
}

// wsConn adapts one gorilla connection to core.LiveConn. Writes go
// through a buffered channel; a full buffer is backpressure, never a
// blocked broadcast.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleLive attaches one connection to a party's live channel.
func (ctl *Controller) HandleLive(ctx context.Context, c *gin.Context) {
	code := c.Param("code")
	userID := c.Query("userId")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "live").Msg("ws upgrade")
		return
	}

	party, ok := ctl.Registry.Get(code)
	if !ok {
		log.Warn().Str("module", "live").Str("code", code).Msg("attach to unknown party")
		msg := websocket.FormatCloseMessage(ClosePartyNotFound, "Party not found")
		_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = ws.Close()
		return
	}

	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	id := core.ConnID(uuid.NewString())
	log.Info().Str("module", "live").Str("code", code).Str("conn", string(id)).Str("user", userID).Msg("live attach")

	party.Attach(id, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, party, id, userID, conn)

	// Late joiners converge immediately instead of waiting for the next
	// state change.
	ctl.sendJSON(conn, syncMessage(party))
}
