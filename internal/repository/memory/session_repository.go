package memory

import (
	"ai-assistant-be/pkg/store"
	"time"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.SessionState) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.SessionState, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.SessionState), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
