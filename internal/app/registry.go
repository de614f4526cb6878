package app

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tourandot/server/internal/core"
	"github.com/tourandot/server/internal/domain"
)

// PartyRegistry is the single process-wide owner of live parties. All
// party lookup and lifecycle goes through it; a party never outlives
// its registry entry.
type PartyRegistry struct {
	mu      sync.RWMutex
	parties map[domain.PartyCode]core.PartyService
	lobby   bool
}

func NewPartyRegistry(lobbyMode bool) *PartyRegistry {
	return &PartyRegistry{
		parties: make(map[domain.PartyCode]core.PartyService),
		lobby:   lobbyMode,
	}
}

// PartySummary is the discovery projection. It never carries the pin or
// member-level detail.
type PartySummary struct {
	Code        domain.PartyCode `json:"code"`
	TourID      string           `json:"tourId"`
	JoinMode    domain.JoinMode  `json:"joinMode"`
	MemberCount int              `json:"memberCount"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// generateCode returns a 6-char uppercase hex code from random bytes.
func generateCode() domain.PartyCode {
	var b [3]byte
	_, _ = rand.Read(b[:])
	return domain.PartyCode(strings.ToUpper(hex.EncodeToString(b[:])))
}

func normalize(code string) domain.PartyCode {
	return domain.PartyCode(strings.ToUpper(code))
}

// Create validates input, assigns a unique code and seeds membership
// with the host. Collisions are vanishingly rare but re-rolled anyway.
func (r *PartyRegistry) Create(tourID, hostID, hostName string, cfg domain.PartyConfig, mode domain.JoinMode, pin string, stopCount int) (core.PartyService, error) {
	meta, err := domain.NewParty(tourID, hostID, cfg, mode, pin, stopCount)
	if err != nil {
		return nil, err
	}
	if _, err := domain.NewMember(hostID, hostName, true); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	code := generateCode()
	for {
		if _, taken := r.parties[code]; !taken {
			break
		}
		code = generateCode()
	}
	meta.Code = code
	party := core.NewPartyService(meta, hostName, r.lobby)
	r.parties[code] = party
	log.Info().Str("module", "app.registry").Str("code", string(code)).Str("tour", tourID).Str("host", hostID).Msg("party created")
	return party, nil
}

// Get resolves a code case-insensitively.
func (r *PartyRegistry) Get(code string) (core.PartyService, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parties[normalize(code)]
	return p, ok
}

// Delete removes the party and terminates its live connections. This is
// the end-of-tour signal; there is no completed-but-kept state.
func (r *PartyRegistry) Delete(code string) bool {
	norm := normalize(code)
	r.mu.Lock()
	p, ok := r.parties[norm]
	delete(r.parties, norm)
	r.mu.Unlock()
	if !ok {
		return false
	}
	p.CloseAll()
	log.Info().Str("module", "app.registry").Str("code", string(norm)).Msg("party deleted")
	return true
}

// ListActive projects currently active parties for nearby discovery.
func (r *PartyRegistry) ListActive() []PartySummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PartySummary, 0, len(r.parties))
	for code, p := range r.parties {
		if p.Status() != domain.StatusActive {
			continue
		}
		meta := p.Party()
		out = append(out, PartySummary{
			Code:        code,
			TourID:      meta.TourID,
			JoinMode:    meta.JoinMode,
			MemberCount: p.MemberCount(),
			CreatedAt:   meta.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
