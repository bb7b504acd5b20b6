// Package loader reads the startup data files: catalog, index bundle, user
// profiles, listening history and precomputed time contexts.
package loader

import (
	"fmt"
	"io"
	"os"

	"jukejam/internal/models"
)

// LoadCatalog reads the song catalog CSV at path
func LoadCatalog(path string) ([]models.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return ReadCatalog(f, path)
}

// ReadCatalog parses a catalog CSV. Only track_id is required; absent popularity
// becomes 50 and absent audio features become the neutral 0.5.
func ReadCatalog(r io.Reader, source string) ([]models.Track, error) {
	var tracks []models.Track
	seen := make(map[models.TrackID]struct{})

	err := readRows(r, source, []string{"track_id"}, func(rw row) error {
		id := models.TrackID(rw.get("track_id"))
		if id == "" {
			return fmt.Errorf("line %d: empty track_id", rw.line)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("line %d: duplicate track_id %q", rw.line, id)
		}
		seen[id] = struct{}{}

		t, err := trackFromRow(rw, id)
		if err != nil {
			return err
		}
		tracks = append(tracks, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

func trackFromRow(rw row, id models.TrackID) (models.Track, error) {
	t := models.Track{
		ID:          id,
		Title:       rw.get("title"),
		ArtistName:  rw.get("artist_name"),
		AlbumName:   rw.get("album_name"),
		Genre:       rw.get("genre"),
		MoodBucket:  models.ParseMood(rw.get("mood_bucket")),
		EnergyLabel: rw.get("energy_label"),
		MoodLabel:   rw.get("mood_label"),
		TempoLabel:  rw.get("tempo_label"),
	}

	var err error
	if t.DurationMs, err = rw.int("duration_ms", 0); err != nil {
		return t, err
	}
	if t.Popularity, err = rw.int("popularity", models.DefaultPopularity); err != nil {
		return t, err
	}

	features := []struct {
		column string
		dst    *float64
	}{
		{"danceability", &t.Features.Danceability},
		{"energy", &t.Features.Energy},
		{"valence", &t.Features.Valence},
		{"acousticness", &t.Features.Acousticness},
		{"tempo", &t.Features.Tempo},
	}
	for _, f := range features {
		if *f.dst, err = rw.float(f.column, models.DefaultFeatureValue); err != nil {
			return t, err
		}
	}
	return t, nil
}
