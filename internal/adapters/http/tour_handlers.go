package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) ListTours(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tours": h.Tours.List()})
}

func (h *Handlers) GetTour(c *gin.Context) {
	tour, ok := h.Tours.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tour not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tour": tour})
}
