package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tourandot/server/internal/audio"
)

func (h *Handlers) AudioStatus(c *gin.Context) {
	msg := "Audio generation is available"
	if !h.Audio.Enabled() {
		msg = "Audio generation is disabled (missing configuration)"
	}
	c.JSON(http.StatusOK, gin.H{"enabled": h.Audio.Enabled(), "message": msg})
}

type generateTourRequest struct {
	Narrations []struct {
		StopID string `json:"stopId" binding:"required"`
		Style  string `json:"style" binding:"required"`
		Text   string `json:"text" binding:"required"`
	} `json:"narrations"`
	Facts []struct {
		StopID string `json:"stopId" binding:"required"`
		FactID string `json:"factId" binding:"required"`
		Text   string `json:"text" binding:"required"`
	} `json:"facts"`
}

func (h *Handlers) GenerateTourAudio(c *gin.Context) {
	if !h.Audio.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Audio generation is not configured"})
		return
	}

	var req generateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tourID := c.Param("tourId")
	items := make([]audio.Item, 0, len(req.Narrations)+len(req.Facts))
	for _, n := range req.Narrations {
		items = append(items, audio.Item{StopID: n.StopID, Type: audio.TypeNarration, Identifier: n.Style, Text: n.Text})
	}
	for _, f := range req.Facts {
		items = append(items, audio.Item{StopID: f.StopID, Type: audio.TypeFact, Identifier: f.FactID, Text: f.Text})
	}

	total, started := h.Audio.GenerateTour(c.Request.Context(), tourID, items)
	if !started {
		st, _ := h.Audio.Status(c.Request.Context(), tourID)
		c.JSON(http.StatusOK, gin.H{"status": "already_generating", "progress": st.Progress, "total": st.Total})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "started",
		"tourId":  tourID,
		"total":   total,
		"message": "Audio generation started in background",
	})
}

func (h *Handlers) GenerationStatus(c *gin.Context) {
	st, ok := h.Audio.Status(c.Request.Context(), c.Param("tourId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No generation found for this tour"})
		return
	}
	c.JSON(http.StatusOK, st)
}

type generateSingleRequest struct {
	StopID     string `json:"stopId" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=narration fact"`
	Identifier string `json:"identifier" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

func (h *Handlers) GenerateSingle(c *gin.Context) {
	if !h.Audio.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Audio generation is not configured"})
		return
	}

	var req generateSingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.Audio.Generate(c.Request.Context(), audio.Item{
		StopID:     req.StopID,
		Type:       audio.ItemType(req.Type),
		Identifier: req.Identifier,
		Text:       req.Text,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audioUrl": res.AudioURL, "cached": res.Cached})
}

func (h *Handlers) CheckAudio(c *gin.Context) {
	exists, url, err := h.Audio.Check(
		c.Request.Context(),
		c.Param("stopId"),
		audio.ItemType(c.Param("type")),
		c.Param("identifier"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusOK, gin.H{"exists": false, "audioUrl": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": true, "audioUrl": url})
}
