package savestatus

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type MemoryTracker struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ Tracker = &MemoryTracker{}

func NewMemoryTracker(ttl time.Duration) *MemoryTracker {
	return &MemoryTracker{cache: cache.New(ttl, ttl/2)}
}

func (t *MemoryTracker) load(id uuid.UUID) Status {
	if x, ok := t.cache.Get(id.String()); ok {
		return x.(Status)
	}
	return Status{}
}

func (t *MemoryTracker) MarkSaved(ctx context.Context, briefID uuid.UUID, at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.load(briefID)
	s.LastSavedAt = &at
	s.FailuresSinceSave = 0
	t.cache.Set(briefID.String(), s, cache.DefaultExpiration)
	return nil
}

func (t *MemoryTracker) MarkFailed(ctx context.Context, briefID uuid.UUID, at time.Time, cause error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.load(briefID)
	s.LastFailureAt = &at
	if cause != nil {
		s.LastError = cause.Error()
	}
	s.FailuresSinceSave++
	t.cache.Set(briefID.String(), s, cache.DefaultExpiration)
	return nil
}

func (t *MemoryTracker) Get(ctx context.Context, briefID uuid.UUID) (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(briefID), nil
}
