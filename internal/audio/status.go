package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

type GenState string

const (
	StateGenerating GenState = "generating"
	StateComplete   GenState = "complete"
	StateFailed     GenState = "failed"
)

// GenStatus is the pollable progress of one tour-wide generation run.
type GenStatus struct {
	Status   GenState `json:"status"`
	Progress int      `json:"progress"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors"`
}

// StatusStore tracks generation runs per tour. The in-memory store is
// the default; Redis backs it when an address is configured so progress
// survives a restart mid-run.
type StatusStore interface {
	Get(ctx context.Context, tourID string) (GenStatus, bool)
	Put(ctx context.Context, tourID string, st GenStatus)
}

type MemoryStatusStore struct {
	mu   sync.RWMutex
	runs map[string]GenStatus
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{runs: make(map[string]GenStatus)}
}

func (s *MemoryStatusStore) Get(_ context.Context, tourID string) (GenStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.runs[tourID]
	return st, ok
}

func (s *MemoryStatusStore) Put(_ context.Context, tourID string, st GenStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[tourID] = st
}

type RedisStatusStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatusStore(addr string) *RedisStatusStore {
	return &RedisStatusStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    24 * time.Hour,
	}
}

func statusKey(tourID string) string {
	return fmt.Sprintf("audio:gen:%s", tourID)
}

func (s *RedisStatusStore) Get(ctx context.Context, tourID string) (GenStatus, bool) {
	raw, err := s.client.Get(ctx, statusKey(tourID)).Result()
	if errors.Is(err, redis.Nil) {
		return GenStatus{}, false
	}
	if err != nil {
		return GenStatus{}, false
	}
	var st GenStatus
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return GenStatus{}, false
	}
	return st, true
}

func (s *RedisStatusStore) Put(ctx context.Context, tourID string, st GenStatus) {
	raw, err := json.Marshal(st)
	if err != nil {
		return
	}
	_ = s.client.Set(ctx, statusKey(tourID), raw, s.ttl).Err()
}
