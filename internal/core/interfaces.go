package core

import (
	"time"

	"github.com/tourandot/server/internal/domain"
)

// Frame is a raw payload already encoded for the wire.
type Frame []byte

// ConnID identifies one live connection attached to a party.
type ConnID string

// LiveConn abstracts a party member's messaging transport.
// Owned by the adapter; the adapter must Close() it.
type LiveConn interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to the caller.
type PublishResult struct {
	SentTo  int
	Dropped []ConnID
}

// MemberView is a read-only view for APIs (no transport fields).
type MemberView struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Ready    bool           `json:"ready"`
	Location *domain.LatLng `json:"location,omitempty"`
}

// PartySnapshot is the full shared state pushed to clients.
// The pin never appears here.
type PartySnapshot struct {
	Code        domain.PartyCode   `json:"code"`
	TourID      string             `json:"tourId"`
	HostID      string             `json:"hostId"`
	Config      domain.PartyConfig `json:"config"`
	JoinMode    domain.JoinMode    `json:"joinMode"`
	Status      domain.PartyStatus `json:"status"`
	CurrentStop int                `json:"currentStop"`
	Members     []MemberView       `json:"members"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ReadyResult is what a ready call reports back.
type ReadyResult struct {
	AllReady bool
	Members  []MemberView
}

// PartyService is the core-facing API of one party. It owns membership,
// the status machine and the live-connection set, and serializes every
// mutation behind one lock. It never touches adapter-owned resources
// except through LiveConn.
type PartyService interface {
	Party() *domain.Party
	Status() domain.PartyStatus
	CurrentStop() int
	MemberCount() int
	Snapshot() PartySnapshot

	Join(userID, name, pin string) error
	MarkReady(userID string) ReadyResult
	UpdateLocation(userID string, loc domain.LatLng)
	Start(userID string) bool
	Advance(userID string) bool

	Attach(id ConnID, conn LiveConn)
	Detach(id ConnID)
	Kick(id ConnID)
	Broadcast(data Frame) PublishResult
	CloseAll()
}
