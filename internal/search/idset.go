package search

import (
	"sort"

	"jukejam/internal/models"
)

// IDSet is an unordered set of track identifiers
type IDSet map[models.TrackID]struct{}

// NewIDSet builds a set from a posting list
func NewIDSet(ids ...models.TrackID) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is in the set
func (s IDSet) Contains(id models.TrackID) bool {
	_, ok := s[id]
	return ok
}

// Union adds every id of other to s
func (s IDSet) Union(other IDSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Intersect returns the ids present in both sets
func (s IDSet) Intersect(other IDSet) IDSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(IDSet, len(small))
	for id := range small {
		if large.Contains(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the ids in ascending TrackID order
func (s IDSet) Sorted() []models.TrackID {
	ids := make([]models.TrackID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}
