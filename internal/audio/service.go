package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// batchConcurrency bounds parallel synthesis calls per generation run.
const batchConcurrency = 3

// Result reports one generated (or cache-hit) audio item.
type Result struct {
	AudioURL string
	Cached   bool
}

// Item is one unit of work for a batch run.
type Item struct {
	StopID     string
	Type       ItemType
	Identifier string
	Text       string
}

// Service is the narration audio pipeline: cache-first synthesis into
// the blob store, plus tour-wide background batches with pollable
// progress. Disabled when credentials are missing; callers must check
// Enabled().
type Service struct {
	tts     TTS
	store   BlobStore
	status  StatusStore
	enabled bool
}

func NewService(tts TTS, store BlobStore, status StatusStore, enabled bool) *Service {
	if status == nil {
		status = NewMemoryStatusStore()
	}
	return &Service{tts: tts, store: store, status: status, enabled: enabled}
}

func (s *Service) Enabled() bool { return s.enabled }

// Generate produces audio for one item, skipping synthesis when the
// object already exists under its deterministic key.
func (s *Service) Generate(ctx context.Context, it Item) (Result, error) {
	key := Key(it.StopID, it.Type, it.Identifier)

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("check %s: %w", key, err)
	}
	if exists {
		return Result{AudioURL: s.store.URL(key), Cached: true}, nil
	}

	data, err := s.tts.Synthesize(ctx, it.Text)
	if err != nil {
		return Result{}, fmt.Errorf("synthesize %s: %w", key, err)
	}
	url, err := s.store.Upload(ctx, key, data, "audio/mpeg")
	if err != nil {
		return Result{}, fmt.Errorf("upload %s: %w", key, err)
	}
	log.Info().Str("module", "audio").Str("key", key).Int("bytes", len(data)).Msg("audio generated")
	return Result{AudioURL: url}, nil
}

// Check reports whether audio for the item already exists, with its URL.
func (s *Service) Check(ctx context.Context, stopID string, typ ItemType, identifier string) (bool, string, error) {
	key := Key(stopID, typ, identifier)
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return false, "", err
	}
	if !exists {
		return false, "", nil
	}
	return true, s.store.URL(key), nil
}

// GenerateTour starts a background batch for a whole tour. Returns the
// total item count, or false when a run for this tour is already going.
// Per-item failures are collected, never abort the batch.
func (s *Service) GenerateTour(ctx context.Context, tourID string, items []Item) (int, bool) {
	if st, ok := s.status.Get(ctx, tourID); ok && st.Status == StateGenerating {
		return st.Total, false
	}

	total := len(items)
	s.status.Put(ctx, tourID, GenStatus{Status: StateGenerating, Total: total, Errors: []string{}})

	go s.runBatch(tourID, items)
	return total, true
}

func (s *Service) runBatch(tourID string, items []Item) {
	// Detached from the request; the run outlives the HTTP call.
	ctx := context.Background()

	var mu sync.Mutex
	progress := 0
	var failures []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for _, it := range items {
		it := it
		g.Go(func() error {
			_, err := s.Generate(gctx, it)
			mu.Lock()
			progress++
			if err != nil {
				failures = append(failures, fmt.Sprintf("%s/%s: %v", it.StopID, it.Identifier, err))
				log.Error().Err(err).Str("module", "audio").Str("stop", it.StopID).Str("item", it.Identifier).Msg("batch item failed")
			}
			st := GenStatus{Status: StateGenerating, Progress: progress, Total: len(items), Errors: append([]string{}, failures...)}
			mu.Unlock()
			s.status.Put(ctx, tourID, st)
			return nil
		})
	}
	_ = g.Wait()

	mu.Lock()
	final := GenStatus{Status: StateComplete, Progress: progress, Total: len(items), Errors: append([]string{}, failures...)}
	if len(failures) > 0 {
		final.Status = StateFailed
	}
	mu.Unlock()
	s.status.Put(ctx, tourID, final)
	log.Info().Str("module", "audio").Str("tour", tourID).Int("total", len(items)).Int("failed", len(failures)).Msg("batch finished")
}

// Status returns the pollable progress of a tour's generation run.
func (s *Service) Status(ctx context.Context, tourID string) (GenStatus, bool) {
	return s.status.Get(ctx, tourID)
}
