package live

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tourandot/server/internal/core"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "live").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "live").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "live").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "live").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, party core.PartyService, id core.ConnID, userID string, c *wsConn) {
	defer func() {
		log.Info().Str("module", "live").Str("conn", string(id)).Msg("readPump closing")
		cancel()
		party.Detach(id)
		c.Close()
		// Best effort: let others drop the marker from the live map.
		// The member record stays for reconnects.
		if userID != "" {
			ctl.push(party, map[string]any{"type": "member_offline", "userId": userID})
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "live").Str("conn", string(id)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "live").Str("conn", string(id)).Msg("readPump read error")
				return
			}
			ctl.handleMessage(party, c, data)
		}
	}
}

// handleMessage decodes the inbound envelope and routes it. Malformed
// payloads are logged and dropped, never fatal to the connection.
func (ctl *Controller) handleMessage(party core.PartyService, c *wsConn, data []byte) {
	var env struct {
		Type   string `json:"type"`
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "live").Msg("bad json")
		return
	}

	switch env.Type {
	case "location":
		ctl.handleLocation(party, env.UserID, data)
	case "start":
		ctl.handleStart(party, env.UserID)
	case "advance":
		ctl.handleAdvance(party, env.UserID)
	case "play":
		ctl.handlePlay(party)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "live").Str("type", env.Type).Msg("unknown message")
	}
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "live").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

// push fans v out to every connection attached to the party, kicking
// the ones that cannot keep up.
func (ctl *Controller) push(party core.PartyService, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "live").Msg("push marshal")
		return
	}
	res := party.Broadcast(b)
	for _, id := range res.Dropped {
		party.Kick(id)
	}
}
