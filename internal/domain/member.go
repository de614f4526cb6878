package domain

import "errors"

const (
	MaxUserIDLen = 64
	MaxNameLen   = 36
)

var (
	ErrNameEmpty     = errors.New("member name empty")
	ErrNameTooLong   = errors.New("member name too long")
	ErrUserIDEmpty   = errors.New("user id empty")
	ErrUserIDTooLong = errors.New("user id too long")
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Member represents one participant of a party.
// No transport or lifecycle logic here.
type Member struct {
	ID       string
	Name     string
	Ready    bool
	Location *LatLng
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(id, name string, ready bool) (*Member, error) {
	if id == "" {
		return nil, ErrUserIDEmpty
	}
	if name == "" {
		return nil, ErrNameEmpty
	}
	if len(id) > MaxUserIDLen {
		return nil, ErrUserIDTooLong
	}
	if len(name) > MaxNameLen {
		return nil, ErrNameTooLong
	}
	return &Member{ID: id, Name: name, Ready: ready}, nil
}

func (m *Member) SetName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return ErrNameTooLong
	}
	m.Name = name
	return nil
}
