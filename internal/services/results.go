package services

import (
	"math"

	"jukejam/internal/models"
	"jukejam/internal/scoring"
)

// SongResult is a ranked track as returned to API clients
type SongResult struct {
	TrackID        models.TrackID     `json:"track_id"`
	Title          string             `json:"title"`
	ArtistName     string             `json:"artist_name"`
	AlbumName      string             `json:"album_name"`
	Genre          string             `json:"genre"`
	DurationMs     int                `json:"duration_ms"`
	Popularity     int                `json:"popularity"`
	MoodBucket     models.Mood        `json:"mood_bucket"`
	EnergyLabel    string             `json:"energy_label"`
	MoodLabel      string             `json:"mood_label"`
	TempoLabel     string             `json:"tempo_label"`
	Danceability   float64            `json:"danceability"`
	Energy         float64            `json:"energy"`
	Valence        float64            `json:"valence"`
	Score          float64            `json:"score"`
	ScoreBreakdown *scoring.Breakdown `json:"score_breakdown,omitempty"`
	Explanation    string             `json:"explanation,omitempty"`
}

func newSongResult(t *models.Track, score float64) SongResult {
	return SongResult{
		TrackID:      t.ID,
		Title:        t.Title,
		ArtistName:   t.ArtistName,
		AlbumName:    t.AlbumName,
		Genre:        t.Genre,
		DurationMs:   t.DurationMs,
		Popularity:   t.Popularity,
		MoodBucket:   t.MoodBucket,
		EnergyLabel:  t.EnergyLabel,
		MoodLabel:    t.MoodLabel,
		TempoLabel:   t.TempoLabel,
		Danceability: t.Features.Danceability,
		Energy:       t.Features.Energy,
		Valence:      t.Features.Valence,
		Score:        round(score, 4),
	}
}

// round rounds v half away from zero to the given number of decimals
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
