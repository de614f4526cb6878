package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTTS struct {
	mu       sync.Mutex
	calls    int
	inFlight int32
	maxSeen  int32
	failOn   map[string]bool
	block    chan struct{}
}

func (f *fakeTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxSeen)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxSeen, max, cur) {
			break
		}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.calls++
	fail := f.failOn[text]
	f.mu.Unlock()
	if fail {
		return nil, errors.New("voice unavailable")
	}
	return []byte("mp3:" + text), nil
}

func (f *fakeTTS) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *fakeStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return s.URL(key), nil
}

func (s *fakeStore) URL(key string) string {
	return "https://cdn.test/" + key
}

func TestKeyDeterministic(t *testing.T) {
	assert.Equal(t, "narrations/stop-1/balanced.mp3", Key("stop-1", TypeNarration, "balanced"))
	assert.Equal(t, "facts/stop-1/fact-2.mp3", Key("stop-1", TypeFact, "fact-2"))
	assert.Equal(t, Key("stop-1", TypeNarration, "quick"), Key("stop-1", TypeNarration, "quick"))
}

func TestGenerateCacheFirst(t *testing.T) {
	tts := &fakeTTS{}
	store := newFakeStore()
	svc := NewService(tts, store, nil, true)

	it := Item{StopID: "stop-1", Type: TypeNarration, Identifier: "balanced", Text: "hello"}

	res, err := svc.Generate(context.Background(), it)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, "https://cdn.test/narrations/stop-1/balanced.mp3", res.AudioURL)
	assert.Equal(t, 1, tts.callCount())

	res, err = svc.Generate(context.Background(), it)
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, 1, tts.callCount(), "cache hit must not synthesize again")
}

func TestCheck(t *testing.T) {
	tts := &fakeTTS{}
	store := newFakeStore()
	svc := NewService(tts, store, nil, true)

	exists, _, err := svc.Check(context.Background(), "stop-1", TypeFact, "fact-1")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.Generate(context.Background(), Item{StopID: "stop-1", Type: TypeFact, Identifier: "fact-1", Text: "x"})
	require.NoError(t, err)

	exists, url, err := svc.Check(context.Background(), "stop-1", TypeFact, "fact-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "https://cdn.test/facts/stop-1/fact-1.mp3", url)
}

func waitForFinish(t *testing.T, svc *Service, tourID string) GenStatus {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		st, ok := svc.Status(context.Background(), tourID)
		if ok && st.Status != StateGenerating {
			return st
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("generation did not finish")
	return GenStatus{}
}

func batchItems(n int) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Item{
			StopID:     fmt.Sprintf("stop-%d", i),
			Type:       TypeNarration,
			Identifier: "quick",
			Text:       fmt.Sprintf("text %d", i),
		})
	}
	return items
}

func TestGenerateTourBatch(t *testing.T) {
	tts := &fakeTTS{}
	store := newFakeStore()
	svc := NewService(tts, store, nil, true)

	total, started := svc.GenerateTour(context.Background(), "1", batchItems(10))
	require.True(t, started)
	assert.Equal(t, 10, total)

	st := waitForFinish(t, svc, "1")
	assert.Equal(t, StateComplete, st.Status)
	assert.Equal(t, 10, st.Progress)
	assert.Equal(t, 10, st.Total)
	assert.Empty(t, st.Errors)
	assert.LessOrEqual(t, atomic.LoadInt32(&tts.maxSeen), int32(3), "synthesis concurrency is bounded")
}

func TestGenerateTourPartialFailure(t *testing.T) {
	tts := &fakeTTS{failOn: map[string]bool{"text 2": true, "text 5": true}}
	store := newFakeStore()
	svc := NewService(tts, store, nil, true)

	_, started := svc.GenerateTour(context.Background(), "1", batchItems(8))
	require.True(t, started)

	st := waitForFinish(t, svc, "1")
	assert.Equal(t, StateFailed, st.Status)
	assert.Equal(t, 8, st.Progress, "failures still count toward progress")
	assert.Len(t, st.Errors, 2)

	// Items that succeeded are really in the store.
	exists, err := store.Exists(context.Background(), Key("stop-0", TypeNarration, "quick"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGenerateTourAlreadyRunning(t *testing.T) {
	tts := &fakeTTS{block: make(chan struct{})}
	store := newFakeStore()
	svc := NewService(tts, store, nil, true)

	_, started := svc.GenerateTour(context.Background(), "1", batchItems(4))
	require.True(t, started)

	_, started = svc.GenerateTour(context.Background(), "1", batchItems(4))
	assert.False(t, started, "concurrent run for the same tour is refused")

	close(tts.block)
	st := waitForFinish(t, svc, "1")
	assert.Equal(t, StateComplete, st.Status)

	// A finished run may be restarted.
	_, started = svc.GenerateTour(context.Background(), "1", nil)
	assert.True(t, started)
}

func TestMemoryStatusStore(t *testing.T) {
	s := NewMemoryStatusStore()

	_, ok := s.Get(context.Background(), "1")
	assert.False(t, ok)

	s.Put(context.Background(), "1", GenStatus{Status: StateGenerating, Progress: 3, Total: 9})
	st, ok := s.Get(context.Background(), "1")
	require.True(t, ok)
	assert.Equal(t, 3, st.Progress)
	assert.Equal(t, 9, st.Total)
}
