package app

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourandot/server/internal/core"
	"github.com/tourandot/server/internal/domain"
)

func testConfig() domain.PartyConfig {
	return domain.PartyConfig{NarrationStyle: domain.StyleQuick}
}

func TestCreateGeneratesUniqueUppercaseCodes(t *testing.T) {
	r := NewPartyRegistry(false)

	seen := make(map[domain.PartyCode]bool)
	for i := 0; i < 200; i++ {
		p, err := r.Create("1", "h1", "Host", testConfig(), domain.JoinOpen, "", 8)
		require.NoError(t, err)
		code := p.Party().Code
		assert.Len(t, string(code), 6)
		assert.Equal(t, strings.ToUpper(string(code)), string(code))
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	r := NewPartyRegistry(false)
	p, err := r.Create("1", "h1", "Host", testConfig(), domain.JoinOpen, "", 8)
	require.NoError(t, err)
	code := string(p.Party().Code)

	got, ok := r.Get(strings.ToLower(code))
	require.True(t, ok)
	assert.Same(t, p, got)

	got, ok = r.Get(code)
	require.True(t, ok)
	assert.Same(t, p, got)
}

func TestGetUnknownCode(t *testing.T) {
	r := NewPartyRegistry(false)
	_, ok := r.Get("NOPE42")
	assert.False(t, ok)
}

func TestCreateValidation(t *testing.T) {
	r := NewPartyRegistry(false)

	t.Run("pin mode requires pin", func(t *testing.T) {
		_, err := r.Create("1", "h1", "Host", testConfig(), domain.JoinPin, "", 8)
		assert.ErrorIs(t, err, domain.ErrPinRequired)
	})

	t.Run("pin must be 4 digits", func(t *testing.T) {
		_, err := r.Create("1", "h1", "Host", testConfig(), domain.JoinPin, "12ab", 8)
		assert.ErrorIs(t, err, domain.ErrPinFormat)
	})

	t.Run("bad style", func(t *testing.T) {
		_, err := r.Create("1", "h1", "Host", domain.PartyConfig{NarrationStyle: "chatty"}, domain.JoinOpen, "", 8)
		assert.ErrorIs(t, err, domain.ErrBadStyle)
	})

	t.Run("open mode discards pin", func(t *testing.T) {
		p, err := r.Create("1", "h1", "Host", testConfig(), domain.JoinOpen, "1234", 8)
		require.NoError(t, err)
		assert.Empty(t, p.Party().Pin)
	})
}

type closableConn struct {
	mu     sync.Mutex
	closed bool
}

func (c *closableConn) TrySend(core.Frame) error { return nil }
func (c *closableConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *closableConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestDeleteCascades(t *testing.T) {
	r := NewPartyRegistry(false)
	p, err := r.Create("1", "h1", "Host", testConfig(), domain.JoinOpen, "", 8)
	require.NoError(t, err)
	code := string(p.Party().Code)

	conn := &closableConn{}
	p.Attach("c1", conn)

	require.True(t, r.Delete(strings.ToLower(code)))
	assert.True(t, conn.isClosed(), "delete must terminate live conns")

	_, ok := r.Get(code)
	assert.False(t, ok)

	assert.False(t, r.Delete(code), "second delete reports nothing existed")
}

func TestListActiveProjection(t *testing.T) {
	r := NewPartyRegistry(false)
	p1, err := r.Create("1", "h1", "Host", testConfig(), domain.JoinPin, "1234", 8)
	require.NoError(t, err)
	require.NoError(t, p1.Join("m1", "Alice", "1234"))

	lobbyReg := NewPartyRegistry(true)
	_, err = lobbyReg.Create("1", "h2", "Other", testConfig(), domain.JoinOpen, "", 8)
	require.NoError(t, err)

	active := r.ListActive()
	require.Len(t, active, 1)
	assert.Equal(t, p1.Party().Code, active[0].Code)
	assert.Equal(t, "1", active[0].TourID)
	assert.Equal(t, domain.JoinPin, active[0].JoinMode)
	assert.Equal(t, 2, active[0].MemberCount)
	assert.False(t, active[0].CreatedAt.IsZero())

	assert.Empty(t, lobbyReg.ListActive(), "lobby parties are not discoverable")
}

func TestListActiveNewestFirst(t *testing.T) {
	r := NewPartyRegistry(false)
	for i := 0; i < 5; i++ {
		_, err := r.Create("1", "h1", "Host", testConfig(), domain.JoinOpen, "", 8)
		require.NoError(t, err)
	}

	active := r.ListActive()
	require.Len(t, active, 5)
	for i := 1; i < len(active); i++ {
		assert.False(t, active[i-1].CreatedAt.Before(active[i].CreatedAt))
	}
}
