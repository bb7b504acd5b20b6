package repositories

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"jukejam/internal/models"
)

// ProfileStore holds user profiles keyed by lowercased user id.
// Writes replace a profile wholesale; readers always see a complete profile.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]models.UserProfile
}

// NewProfileStore creates a store seeded with profiles
func NewProfileStore(profiles []models.UserProfile) *ProfileStore {
	s := &ProfileStore{profiles: make(map[string]models.UserProfile, len(profiles))}
	for _, p := range profiles {
		s.profiles[p.Key()] = cloneProfile(p)
	}
	return s
}

// Get returns a copy of the profile for userID
func (s *ProfileStore) Get(userID string) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[models.UserKey(userID)]
	if !ok {
		return models.UserProfile{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return cloneProfile(p), nil
}

// GetOrNeutral returns the stored profile, or a neutral one for unknown users
func (s *ProfileStore) GetOrNeutral(userID string) (models.UserProfile, bool) {
	p, err := s.Get(userID)
	if err != nil {
		return models.NeutralProfile(userID), false
	}
	return p, true
}

// Put replaces the profile stored under the profile's user key
func (s *ProfileStore) Put(p models.UserProfile) {
	p = cloneProfile(p)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.Key()] = p
}

// List returns every profile ordered by user key
func (s *ProfileStore) List() []models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.profiles))
	for k := range s.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.UserProfile, 0, len(keys))
	for _, k := range keys {
		out = append(out, cloneProfile(s.profiles[k]))
	}
	return out
}

// First returns the profile with the smallest user key
func (s *ProfileStore) First() (models.UserProfile, bool) {
	all := s.List()
	if len(all) == 0 {
		return models.UserProfile{}, false
	}
	return all[0], true
}

// Len returns the number of stored profiles
func (s *ProfileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func cloneProfile(p models.UserProfile) models.UserProfile {
	p.TopGenres = slices.Clone(p.TopGenres)
	p.PreferredMoods = maps.Clone(p.PreferredMoods)
	p.ListeningTimeProfile = maps.Clone(p.ListeningTimeProfile)
	p.PlatformMix = maps.Clone(p.PlatformMix)
	return p
}
