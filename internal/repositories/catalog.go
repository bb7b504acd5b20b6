package repositories

import (
	"fmt"
	"sort"

	"jukejam/internal/models"
)

// Catalog is the in-memory, read-only track lookup built once at startup
type Catalog struct {
	tracks map[models.TrackID]*models.Track
	ids    []models.TrackID
}

// NewCatalog indexes tracks by id. Duplicate ids are rejected.
func NewCatalog(tracks []models.Track) (*Catalog, error) {
	c := &Catalog{
		tracks: make(map[models.TrackID]*models.Track, len(tracks)),
		ids:    make([]models.TrackID, 0, len(tracks)),
	}
	for i := range tracks {
		t := tracks[i]
		if _, dup := c.tracks[t.ID]; dup {
			return nil, fmt.Errorf("duplicate track id %q", t.ID)
		}
		c.tracks[t.ID] = &t
		c.ids = append(c.ids, t.ID)
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i].Less(c.ids[j]) })
	return c, nil
}

// Track returns the record for id
func (c *Catalog) Track(id models.TrackID) (*models.Track, bool) {
	t, ok := c.tracks[id]
	return t, ok
}

// Get is Track with a not-found error
func (c *Catalog) Get(id models.TrackID) (*models.Track, error) {
	t, ok := c.tracks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, id)
	}
	return t, nil
}

// Genre returns the genre of id, satisfying timecontext.GenreLookup
func (c *Catalog) Genre(id models.TrackID) (string, bool) {
	t, ok := c.tracks[id]
	if !ok {
		return "", false
	}
	return t.Genre, true
}

// Len returns the number of tracks
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// IDs returns every track id in ascending order
func (c *Catalog) IDs() []models.TrackID {
	out := make([]models.TrackID, len(c.ids))
	copy(out, c.ids)
	return out
}

// Tracks returns every track in id order
func (c *Catalog) Tracks() []models.Track {
	out := make([]models.Track, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, *c.tracks[id])
	}
	return out
}
