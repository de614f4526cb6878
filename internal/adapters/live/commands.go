package live

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/tourandot/server/internal/core"
	"github.com/tourandot/server/internal/domain"
)

func syncMessage(party core.PartyService) any {
	return struct {
		Type  string             `json:"type"`
		Party core.PartySnapshot `json:"party"`
	}{
		Type:  "sync",
		Party: party.Snapshot(),
	}
}

// PushSync broadcasts the current snapshot to every attached
// connection. The REST handlers call this after join/ready mutations so
// live members converge without polling.
func (ctl *Controller) PushSync(party core.PartyService) {
	ctl.push(party, syncMessage(party))
}

// PushEvent broadcasts an arbitrary event to a party's live channel.
func (ctl *Controller) PushEvent(party core.PartyService, v any) {
	ctl.push(party, v)
}

func (ctl *Controller) handleLocation(party core.PartyService, userID string, data []byte) {
	var p struct {
		Location domain.LatLng `json:"location"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "live").Msg("bad location payload")
		return
	}
	party.UpdateLocation(userID, p.Location)
	ctl.push(party, struct {
		Type     string        `json:"type"`
		UserID   string        `json:"userId"`
		Location domain.LatLng `json:"location"`
	}{"location", userID, p.Location})
}

// handleStart moves the party out of the lobby. Non-host senders and
// already-active parties are silent no-ops.
func (ctl *Controller) handleStart(party core.PartyService, userID string) {
	if !party.Start(userID) {
		return
	}
	ctl.PushSync(party)
}

// handleAdvance moves the shared cursor. Non-host senders and the final
// stop are silent no-ops.
func (ctl *Controller) handleAdvance(party core.PartyService, userID string) {
	if !party.Advance(userID) {
		return
	}
	ctl.PushSync(party)
}

// handlePlay tells every client to start audio for the current stop.
// No state changes here.
func (ctl *Controller) handlePlay(party core.PartyService) {
	ctl.push(party, struct {
		Type      string `json:"type"`
		StopIndex int    `json:"stopIndex"`
	}{"play", party.CurrentStop()})
}
