// Package tours is the read-only tour content store. Content is static
// and seeded at startup; the coordinator only ever reads it.
package tours

import (
	"sync"

	"github.com/tourandot/server/internal/domain"
)

type Store struct {
	mu      sync.RWMutex
	list    []domain.Tour
	details map[string]*domain.TourDetails
}

func NewStore() *Store {
	s := &Store{details: make(map[string]*domain.TourDetails)}
	for _, t := range seedTours() {
		s.add(t)
	}
	return s
}

func (s *Store) add(d *domain.TourDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details[d.ID] = d
	s.list = append(s.list, domain.Tour{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Duration:    d.Duration,
		Stops:       len(d.Stops),
		Distance:    distanceOf(d),
	})
}

func (s *Store) List() []domain.Tour {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Tour, len(s.list))
	copy(out, s.list)
	return out
}

func (s *Store) Get(id string) (*domain.TourDetails, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.details[id]
	return d, ok
}

// Narration returns the pre-authored text for a stop in the given style.
func (s *Store) Narration(tourID, stopID string, style domain.NarrationStyle) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.details[tourID]
	if !ok {
		return "", false
	}
	byStyle, ok := d.Narrations[stopID]
	if !ok {
		return "", false
	}
	text, ok := byStyle[style]
	return text, ok
}

func (s *Store) Facts(tourID, stopID string) []domain.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.details[tourID]
	if !ok {
		return nil
	}
	return d.Facts[stopID]
}
