package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/tourandot/server/internal/adapters/http"
	"github.com/tourandot/server/internal/adapters/live"
	"github.com/tourandot/server/internal/app"
	"github.com/tourandot/server/internal/audio"
	"github.com/tourandot/server/internal/config"
	"github.com/tourandot/server/internal/tours"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, relying on process env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	registry := app.NewPartyRegistry(cfg.Party.Lobby)
	tourStore := tours.NewStore()

	missing := cfg.AudioMissing()
	audioEnabled := len(missing) == 0
	if !audioEnabled {
		log.Warn().Str("missing", strings.Join(missing, ", ")).Msg("audio generation disabled")
	}
	var statusStore audio.StatusStore
	if cfg.RedisAddr != "" {
		statusStore = audio.NewRedisStatusStore(cfg.RedisAddr)
		log.Info().Str("addr", cfg.RedisAddr).Msg("generation status in redis")
	} else {
		statusStore = audio.NewMemoryStatusStore()
	}
	audioSvc := audio.NewService(
		audio.NewElevenLabsClient(cfg.TTS.APIKey, cfg.TTS.VoiceID, cfg.TTS.ModelID),
		audio.NewHTTPBlobStore(cfg.Storage.BaseURL, cfg.Storage.PublicURL, cfg.Storage.Bucket, cfg.Storage.Token),
		statusStore,
		audioEnabled,
	)

	liveCtl := live.NewController(registry, cfg.ReadLimit)
	handlers := &router.Handlers{
		Registry: registry,
		Tours:    tourStore,
		Audio:    audioSvc,
		Live:     liveCtl,
	}

	r := router.SetupRouter(ctx, cfg, handlers)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Bool("lobby", cfg.Party.Lobby).Msg("Tourandot server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
