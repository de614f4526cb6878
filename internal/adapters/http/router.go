package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tourandot/server/internal/config"
)

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

// ClientTokenMiddleware hands every browser a stable opaque token.
// Clients use it as their userId; it is not an identity proof.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, h *Handlers) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("TourandotSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/health", h.Health)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	toursAPI := api.Group("/tours")
	toursAPI.GET("", h.ListTours)
	toursAPI.GET("/:id", h.GetTour)

	party := api.Group("/party")
	party.POST("", h.CreateParty)
	party.GET("/ongoing", h.OngoingParties)
	party.GET("/:code", h.GetParty)
	party.DELETE("/:code", h.DeleteParty)
	party.POST("/:code/join", h.JoinParty)
	party.POST("/:code/ready", h.MarkReady)
	party.GET("/:code/live", func(c *gin.Context) {
		h.Live.HandleLive(ctx, c)
	})

	audioAPI := api.Group("/audio")
	audioAPI.GET("/status", h.AudioStatus)
	audioAPI.POST("/generate/tour/:tourId", h.GenerateTourAudio)
	audioAPI.GET("/generate/status/:tourId", h.GenerationStatus)
	audioAPI.POST("/generate/single", h.GenerateSingle)
	audioAPI.GET("/check/:stopId/:type/:identifier", h.CheckAudio)

	return r
}
