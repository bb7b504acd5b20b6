package models

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// Defaults applied at load time when a catalog column is missing or empty
const (
	DefaultFeatureValue = 0.5
	DefaultPopularity   = 50
)

// TrackID identifies a catalog entry. Catalogs key tracks either by integer
// or by platform string ids, so both are accepted and stored as text.
type TrackID string

// Less orders ids numerically when both are integers, bytewise otherwise.
// Numeric ids sort before non-numeric ids so the ordering stays total.
func (id TrackID) Less(other TrackID) bool {
	a, errA := strconv.ParseInt(string(id), 10, 64)
	b, errB := strconv.ParseInt(string(other), 10, 64)
	switch {
	case errA == nil && errB == nil:
		if a != b {
			return a < b
		}
		return id < other
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return id < other
	}
}

// UnmarshalJSON accepts both JSON numbers and strings
func (id *TrackID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TrackID(s)
		return nil
	}

	if len(data) == 0 || (data[0] != '-' && (data[0] < '0' || data[0] > '9')) {
		return fmt.Errorf("track id must be a string or number, got %s", data)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("track id must be a string or number: %w", err)
	}
	*id = TrackID(n.String())
	return nil
}

// AudioFeatures holds the continuous audio attributes of a track.
// Energy, valence, danceability and acousticness are unit scaled; tempo is BPM.
type AudioFeatures struct {
	Danceability float64 `json:"danceability" bson:"danceability"`
	Energy       float64 `json:"energy" bson:"energy"`
	Valence      float64 `json:"valence" bson:"valence"`
	Acousticness float64 `json:"acousticness" bson:"acousticness"`
	Tempo        float64 `json:"tempo" bson:"tempo"`
}

// NeutralAudioFeatures returns the midpoint substituted for missing attributes
func NeutralAudioFeatures() AudioFeatures {
	return AudioFeatures{
		Danceability: DefaultFeatureValue,
		Energy:       DefaultFeatureValue,
		Valence:      DefaultFeatureValue,
		Acousticness: DefaultFeatureValue,
		Tempo:        DefaultFeatureValue,
	}
}

// Track is an immutable catalog entry
type Track struct {
	ID          TrackID `json:"track_id"`
	Title       string  `json:"title"`
	ArtistName  string  `json:"artist_name"`
	AlbumName   string  `json:"album_name"`
	Genre       string  `json:"genre"`
	DurationMs  int     `json:"duration_ms"`
	Popularity  int     `json:"popularity"` // 0-100
	MoodBucket  Mood    `json:"mood_bucket"`
	EnergyLabel string  `json:"energy_label"`
	MoodLabel   string  `json:"mood_label"`
	TempoLabel  string  `json:"tempo_label"`

	Features AudioFeatures `json:"features"`
}
