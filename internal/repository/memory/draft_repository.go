package memory

import (
	"time"

	"ai-briefbuilder-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DraftRepository holds live wizard sessions by session key. Entries expire after ttl of inactivity.
type DraftRepository struct {
	cache *cache.Cache
}

func NewDraftRepository(ttl time.Duration) *DraftRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &DraftRepository{
		cache: cache.New(ttl, ttl/4),
	}
}

// Save stores a copy so callers can keep mutating their own value.
func (r *DraftRepository) Save(session *store.Session) {
	r.cache.Set(session.Key.String(), session.Clone(), cache.DefaultExpiration)
}

// Get returns a copy of the stored session.
func (r *DraftRepository) Get(key uuid.UUID) (*store.Session, bool) {
	if x, found := r.cache.Get(key.String()); found {
		return x.(*store.Session).Clone(), true
	}
	return nil, false
}

func (r *DraftRepository) Delete(key uuid.UUID) {
	r.cache.Delete(key.String())
}

// FindByBriefID returns the open workspace of a stored brief. A workspace keyed by the
// brief id wins over one opened under a fresh key.
func (r *DraftRepository) FindByBriefID(briefID uuid.UUID) (*store.Session, bool) {
	if s, ok := r.Get(briefID); ok {
		return s, true
	}
	for _, item := range r.cache.Items() {
		if s, ok := item.Object.(*store.Session); ok && s.ID == briefID {
			return s.Clone(), true
		}
	}
	return nil, false
}

// DeleteByBriefID drops every workspace bound to the brief and reports how many were open.
func (r *DraftRepository) DeleteByBriefID(briefID uuid.UUID) int {
	removed := 0
	for key, item := range r.cache.Items() {
		if s, ok := item.Object.(*store.Session); ok && (s.ID == briefID || s.Key == briefID) {
			r.cache.Delete(key)
			removed++
		}
	}
	return removed
}

func (r *DraftRepository) Count() int {
	return r.cache.ItemCount()
}
