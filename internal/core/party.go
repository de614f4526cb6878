package core

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tourandot/server/internal/domain"
)

var (
	ErrTourEnded      = errors.New("tour has ended")
	ErrAlreadyStarted = errors.New("tour already started")
	ErrInvalidPIN     = errors.New("invalid PIN")
)

// partyImpl is a threadsafe in-memory party.
// It never closes adapter-owned resources outside CloseAll.
type partyImpl struct {
	meta  *domain.Party
	lobby bool

	mu          sync.RWMutex
	status      domain.PartyStatus
	currentStop int
	members     map[string]*domain.Member
	order       []string
	conns       map[ConnID]LiveConn
}

// NewPartyService seeds the party with its host as the sole member.
// In lobby mode the party waits for an explicit host start and members
// join unready; otherwise it is live immediately and members join ready.
func NewPartyService(meta *domain.Party, hostName string, lobby bool) PartyService {
	p := &partyImpl{
		meta:    meta,
		lobby:   lobby,
		status:  domain.StatusActive,
		members: make(map[string]*domain.Member),
		conns:   make(map[ConnID]LiveConn),
	}
	if lobby {
		p.status = domain.StatusLobby
	}
	host := &domain.Member{ID: meta.HostID, Name: hostName, Ready: !lobby}
	p.members[host.ID] = host
	p.order = append(p.order, host.ID)
	return p
}

func (p *partyImpl) Party() *domain.Party { return p.meta }

func (p *partyImpl) Status() domain.PartyStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *partyImpl) CurrentStop() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentStop
}

func (p *partyImpl) MemberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.members)
}

// Join admits or refreshes a member. Re-joining with a known userID only
// updates the display name so a reconnect never resets readiness.
func (p *partyImpl) Join(userID, name, pin string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status == domain.StatusCompleted {
		return ErrTourEnded
	}
	if p.lobby && p.status != domain.StatusLobby {
		return ErrAlreadyStarted
	}
	if p.meta.JoinMode == domain.JoinPin && p.meta.Pin != pin {
		return ErrInvalidPIN
	}

	if m, ok := p.members[userID]; ok {
		m.Name = name
		log.Debug().Str("module", "core.party").Str("code", string(p.meta.Code)).Str("user", userID).Msg("member rejoined")
		return nil
	}
	p.members[userID] = &domain.Member{ID: userID, Name: name, Ready: !p.lobby}
	p.order = append(p.order, userID)
	log.Info().Str("module", "core.party").Str("code", string(p.meta.Code)).Str("user", userID).Msg("member joined")
	return nil
}

// MarkReady flags the member and recomputes allReady over the current
// membership. Unknown members are ignored.
func (p *partyImpl) MarkReady(userID string) ReadyResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	if m, ok := p.members[userID]; ok {
		m.Ready = true
	}
	all := true
	for _, m := range p.members {
		if !m.Ready {
			all = false
			break
		}
	}
	return ReadyResult{AllReady: all, Members: p.memberViews()}
}

// UpdateLocation overwrites the member's last known position. Silently
// ignored for unknown members: the message may arrive after removal.
func (p *partyImpl) UpdateLocation(userID string, loc domain.LatLng) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.members[userID]; ok {
		m.Location = &loc
	}
}

// Start moves lobby -> active. Only the host may start; anyone else is a
// silent no-op. Reports whether state actually changed.
func (p *partyImpl) Start(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if userID != p.meta.HostID {
		return false
	}
	if p.status != domain.StatusLobby {
		return false
	}
	p.status = domain.StatusActive
	log.Info().Str("module", "core.party").Str("code", string(p.meta.Code)).Msg("tour started")
	return true
}

// Advance moves the shared cursor forward by one, clamped to the last
// stop. Host only; reports whether the cursor moved.
func (p *partyImpl) Advance(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if userID != p.meta.HostID {
		return false
	}
	last := p.meta.StopCount - 1
	if last < 0 {
		last = 0
	}
	if p.currentStop >= last {
		return false
	}
	p.currentStop++
	log.Info().Str("module", "core.party").Str("code", string(p.meta.Code)).Int("stop", p.currentStop).Msg("advanced")
	return true
}

func (p *partyImpl) Snapshot() PartySnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PartySnapshot{
		Code:        p.meta.Code,
		TourID:      p.meta.TourID,
		HostID:      p.meta.HostID,
		Config:      p.meta.Config,
		JoinMode:    p.meta.JoinMode,
		Status:      p.status,
		CurrentStop: p.currentStop,
		Members:     p.memberViews(),
		CreatedAt:   p.meta.CreatedAt,
	}
}

// memberViews renders members in join order. Callers hold p.mu.
func (p *partyImpl) memberViews() []MemberView {
	out := make([]MemberView, 0, len(p.order))
	for _, id := range p.order {
		m, ok := p.members[id]
		if !ok {
			continue
		}
		out = append(out, MemberView{ID: m.ID, Name: m.Name, Ready: m.Ready, Location: m.Location})
	}
	return out
}

func (p *partyImpl) Attach(id ConnID, conn LiveConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[id] = conn
	log.Info().Str("module", "core.party").Str("code", string(p.meta.Code)).Str("conn", string(id)).Msg("live conn attached")
}

func (p *partyImpl) Detach(id ConnID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.conns, id)
	log.Info().Str("module", "core.party").Str("code", string(p.meta.Code)).Str("conn", string(id)).Msg("live conn detached")
}

// Kick removes and terminates one connection, the policy for
// connections that cannot keep up with the fan-out.
func (p *partyImpl) Kick(id ConnID) {
	p.mu.Lock()
	c, ok := p.conns[id]
	delete(p.conns, id)
	p.mu.Unlock()
	if !ok {
		return
	}
	c.Close()
	log.Warn().Str("module", "core.party").Str("code", string(p.meta.Code)).Str("conn", string(id)).Msg("live conn kicked")
}

// Broadcast fans a frame out to every attached connection. Slow
// connections are reported, never waited on.
func (p *partyImpl) Broadcast(data Frame) PublishResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	res := PublishResult{}
	for id, c := range p.conns {
		if err := c.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, id)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.party").Str("code", string(p.meta.Code)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// CloseAll terminates every live connection; called on party deletion.
func (p *partyImpl) CloseAll() {
	p.mu.Lock()
	conns := p.conns
	p.conns = make(map[ConnID]LiveConn)
	p.status = domain.StatusCompleted
	p.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
}
