// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"regexp"
	"time"
)

type PartyCode string

type JoinMode string

const (
	JoinOpen JoinMode = "open"
	JoinPin  JoinMode = "pin"
)

type PartyStatus string

const (
	StatusLobby     PartyStatus = "lobby"
	StatusActive    PartyStatus = "active"
	StatusCompleted PartyStatus = "completed"
)

type NarrationStyle string

const (
	StyleQuick    NarrationStyle = "quick"
	StyleBalanced NarrationStyle = "balanced"
	StyleVerbose  NarrationStyle = "verbose"
)

var (
	ErrPinRequired = errors.New("pin required for pin join mode")
	ErrPinFormat   = errors.New("pin must be 4 digits")
	ErrBadStyle    = errors.New("unknown narration style")
	ErrBadJoinMode = errors.New("unknown join mode")
)

var pinRe = regexp.MustCompile(`^\d{4}$`)

type PartyConfig struct {
	NarrationStyle NarrationStyle `json:"narrationStyle"`
}

// Party is the immutable identity of a shared tour session.
// Mutable state (status, cursor, members) lives in core.
type Party struct {
	Code      PartyCode
	TourID    string
	HostID    string
	Config    PartyConfig
	JoinMode  JoinMode
	Pin       string
	StopCount int
	CreatedAt time.Time
}

// NewParty validates creation input and keeps raw literals out of adapters.
// The code is assigned by the registry, not here.
func NewParty(tourID, hostID string, cfg PartyConfig, mode JoinMode, pin string, stopCount int) (*Party, error) {
	switch cfg.NarrationStyle {
	case StyleQuick, StyleBalanced, StyleVerbose:
	default:
		return nil, ErrBadStyle
	}
	switch mode {
	case JoinOpen:
		pin = ""
	case JoinPin:
		if pin == "" {
			return nil, ErrPinRequired
		}
		if !pinRe.MatchString(pin) {
			return nil, ErrPinFormat
		}
	default:
		return nil, ErrBadJoinMode
	}
	return &Party{
		TourID:    tourID,
		HostID:    hostID,
		Config:    cfg,
		JoinMode:  mode,
		Pin:       pin,
		StopCount: stopCount,
		CreatedAt: time.Now(),
	}, nil
}
