package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tourandot/server/internal/adapters/live"
	"github.com/tourandot/server/internal/app"
	"github.com/tourandot/server/internal/audio"
	"github.com/tourandot/server/internal/core"
	"github.com/tourandot/server/internal/domain"
	"github.com/tourandot/server/internal/tours"
)

// Handlers carries the wired services for every REST endpoint.
type Handlers struct {
	Registry *app.PartyRegistry
	Tours    *tours.Store
	Audio    *audio.Service
	Live     *live.Controller
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "audioEnabled": h.Audio.Enabled()})
}

type createPartyRequest struct {
	TourID   string             `json:"tourId" binding:"required"`
	HostID   string             `json:"hostId" binding:"required"`
	HostName string             `json:"hostName" binding:"required"`
	Config   domain.PartyConfig `json:"config" binding:"required"`
	JoinMode domain.JoinMode    `json:"joinMode" binding:"required"`
	Pin      string             `json:"pin"`
}

func (h *Handlers) CreateParty(c *gin.Context) {
	var req createPartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tour, ok := h.Tours.Get(req.TourID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tour not found"})
		return
	}

	party, err := h.Registry.Create(req.TourID, req.HostID, req.HostName, req.Config, req.JoinMode, req.Pin, len(tour.Stops))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := party.Snapshot()
	c.JSON(http.StatusOK, gin.H{"code": snap.Code, "party": snap})
}

func (h *Handlers) OngoingParties(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parties": h.Registry.ListActive()})
}

func (h *Handlers) GetParty(c *gin.Context) {
	party, ok := h.Registry.Get(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"party": party.Snapshot()})
}

type joinRequest struct {
	UserID string `json:"userId" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Pin    string `json:"pin"`
}

func (h *Handlers) JoinParty(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	party, ok := h.Registry.Get(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		return
	}

	if err := party.Join(req.UserID, req.Name, req.Pin); err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidPIN):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid PIN"})
		case errors.Is(err, core.ErrTourEnded):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tour has ended"})
		case errors.Is(err, core.ErrAlreadyStarted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tour already started"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	snap := party.Snapshot()
	for _, m := range snap.Members {
		if m.ID == req.UserID {
			h.Live.PushEvent(party, struct {
				Type   string          `json:"type"`
				Member core.MemberView `json:"member"`
			}{"member_joined", m})
			break
		}
	}
	h.Live.PushSync(party)

	log.Info().Str("module", "adapters.http").Str("code", string(snap.Code)).Str("user", req.UserID).Msg("joined via rest")
	c.JSON(http.StatusOK, gin.H{"party": snap})
}

type readyRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *Handlers) MarkReady(c *gin.Context) {
	var req readyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	party, ok := h.Registry.Get(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		return
	}

	res := party.MarkReady(req.UserID)

	h.Live.PushEvent(party, struct {
		Type   string `json:"type"`
		UserID string `json:"userId"`
	}{"member_ready", req.UserID})
	h.Live.PushSync(party)

	c.JSON(http.StatusOK, gin.H{
		"ready":    true,
		"allReady": res.AllReady,
		"members":  res.Members,
	})
}

func (h *Handlers) DeleteParty(c *gin.Context) {
	if !h.Registry.Delete(c.Param("code")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
