package repositories

import (
	"maps"
	"slices"
	"sync"

	"jukejam/internal/models"
)

// TimeContextStore holds per-user time contexts keyed by lowercased user id
type TimeContextStore struct {
	mu       sync.RWMutex
	contexts map[string]models.UserTimeContext
}

// NewTimeContextStore creates a store seeded with contexts
func NewTimeContextStore(contexts map[string]models.UserTimeContext) *TimeContextStore {
	s := &TimeContextStore{contexts: make(map[string]models.UserTimeContext, len(contexts))}
	for user, ctx := range contexts {
		s.contexts[models.UserKey(user)] = cloneTimeContext(ctx)
	}
	return s
}

// Get returns a copy of the user's contexts
func (s *TimeContextStore) Get(userID string) (models.UserTimeContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, ok := s.contexts[models.UserKey(userID)]
	if !ok {
		return nil, false
	}
	return cloneTimeContext(ctx), true
}

// Put replaces every slot of the user's contexts
func (s *TimeContextStore) Put(userID string, ctx models.UserTimeContext) {
	ctx = cloneTimeContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[models.UserKey(userID)] = ctx
}

// Len returns the number of users with contexts
func (s *TimeContextStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contexts)
}

// Snapshot returns a copy of every stored context
func (s *TimeContextStore) Snapshot() map[string]models.UserTimeContext {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.UserTimeContext, len(s.contexts))
	for user, ctx := range s.contexts {
		out[user] = cloneTimeContext(ctx)
	}
	return out
}

func cloneTimeContext(ctx models.UserTimeContext) models.UserTimeContext {
	out := maps.Clone(ctx)
	for slot, c := range out {
		c.TopGenres = slices.Clone(c.TopGenres)
		out[slot] = c
	}
	return out
}
