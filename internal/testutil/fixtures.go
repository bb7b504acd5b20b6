package testutil

import (
	"jukejam/internal/models"
)

// TrackBuilder provides a fluent interface for creating test tracks
type TrackBuilder struct {
	track models.Track
}

// NewTrackBuilder creates a new track builder with neutral defaults
func NewTrackBuilder(id string) *TrackBuilder {
	return &TrackBuilder{
		track: models.Track{
			ID:         models.TrackID(id),
			Title:      "Test Song " + id,
			ArtistName: "Test Artist",
			AlbumName:  "Test Album",
			Popularity: models.DefaultPopularity,
			DurationMs: 200000,
			Features: models.AudioFeatures{
				Danceability: 0.5,
				Energy:       0.5,
				Valence:      0.5,
				Acousticness: 0.5,
				Tempo:        120,
			},
		},
	}
}

// WithTitle sets the track title
func (b *TrackBuilder) WithTitle(title string) *TrackBuilder {
	b.track.Title = title
	return b
}

// WithArtist sets the track artist
func (b *TrackBuilder) WithArtist(artist string) *TrackBuilder {
	b.track.ArtistName = artist
	return b
}

// WithGenre sets the track genre
func (b *TrackBuilder) WithGenre(genre string) *TrackBuilder {
	b.track.Genre = genre
	return b
}

// WithMood sets the mood bucket
func (b *TrackBuilder) WithMood(mood models.Mood) *TrackBuilder {
	b.track.MoodBucket = mood
	return b
}

// WithEnergyLabel sets the energy label
func (b *TrackBuilder) WithEnergyLabel(label string) *TrackBuilder {
	b.track.EnergyLabel = label
	return b
}

// WithPopularity sets the popularity score
func (b *TrackBuilder) WithPopularity(popularity int) *TrackBuilder {
	b.track.Popularity = popularity
	return b
}

// WithFeatures sets energy, valence, danceability, acousticness and tempo
func (b *TrackBuilder) WithFeatures(energy, valence, danceability, acousticness, tempo float64) *TrackBuilder {
	b.track.Features = models.AudioFeatures{
		Energy:       energy,
		Valence:      valence,
		Danceability: danceability,
		Acousticness: acousticness,
		Tempo:        tempo,
	}
	return b
}

// Build returns the built track
func (b *TrackBuilder) Build() models.Track {
	return b.track
}

// SampleTracks returns a small catalog covering every mood and energy label
func SampleTracks() []models.Track {
	return []models.Track{
		NewTrackBuilder("1").WithTitle("Love Song").WithArtist("The Beats").WithGenre("pop").
			WithMood(models.MoodHype).WithEnergyLabel(models.EnergyEnergetic).WithPopularity(90).
			WithFeatures(0.9, 0.8, 0.85, 0.1, 140).Build(),
		NewTrackBuilder("2").WithTitle("Love Love").WithArtist("Quiet Hours").WithGenre("pop").
			WithMood(models.MoodChill).WithEnergyLabel(models.EnergyCalm).WithPopularity(40).
			WithFeatures(0.25, 0.5, 0.4, 0.8, 90).Build(),
		NewTrackBuilder("3").WithTitle("Night Drive").WithArtist("The Beats").WithGenre("rock").
			WithMood(models.MoodHype).WithEnergyLabel(models.EnergyEnergetic).WithPopularity(70).
			WithFeatures(0.8, 0.7, 0.6, 0.2, 150).Build(),
		NewTrackBuilder("4").WithTitle("Rainy Window").WithArtist("Quiet Hours").WithGenre("indie").
			WithMood(models.MoodSad).WithEnergyLabel(models.EnergyCalm).WithPopularity(30).
			WithFeatures(0.2, 0.15, 0.3, 0.9, 80).Build(),
		NewTrackBuilder("5").WithTitle("Deep Work").WithArtist("Lo Fi Lab").WithGenre("pop").
			WithMood(models.MoodFocus).WithEnergyLabel(models.EnergyCalm).WithPopularity(55).
			WithFeatures(0.3, 0.4, 0.5, 0.6, 95).Build(),
		NewTrackBuilder("6").WithTitle("Sunny Commute").WithArtist("Bright Side").WithGenre("pop").
			WithMood(models.MoodHappy).WithEnergyLabel(models.EnergyMedium).WithPopularity(80).
			WithFeatures(0.6, 0.85, 0.75, 0.3, 118).Build(),
	}
}

// SampleProfiles returns two bootstrap profiles
func SampleProfiles() []models.UserProfile {
	return []models.UserProfile{
		{
			UserID:               "Alice",
			TopGenres:            []string{"pop", "rock"},
			PreferredMoods:       map[string]float64{"hype": 0.6, "chill": 0.4},
			AvgEnergyPreference:  0.7,
			ListeningTimeProfile: map[string]float64{"morning": 0.5, "night": 0.5},
			PlatformMix:          map[string]float64{"mobile": 1.0},
		},
		{
			UserID:              "bob",
			TopGenres:           []string{"indie"},
			PreferredMoods:      map[string]float64{"sad": 1.0},
			AvgEnergyPreference: 0.3,
		},
	}
}
