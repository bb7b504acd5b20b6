package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jukejam/internal/models"
	"jukejam/internal/search"
)

const catalogCSV = `track_id,title,artist_name,album_name,genre,duration_ms,popularity,mood_bucket,energy_label,danceability,energy,valence,acousticness,tempo
1,Love Song,Lady Gaga,Fame,pop,210000,81,Happy,energetic,0.7,0.8,0.9,0.1,128
2,Quiet Night,Someone,,ambient,,,sad,calm,,,,,
`

func TestReadCatalog(t *testing.T) {
	tracks, err := ReadCatalog(strings.NewReader(catalogCSV), "catalog.csv")
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	first := tracks[0]
	assert.Equal(t, models.TrackID("1"), first.ID)
	assert.Equal(t, "Lady Gaga", first.ArtistName)
	assert.Equal(t, models.MoodHappy, first.MoodBucket)
	assert.Equal(t, 81, first.Popularity)
	assert.Equal(t, 210000, first.DurationMs)
	assert.Equal(t, 128.0, first.Features.Tempo)

	second := tracks[1]
	assert.Equal(t, models.DefaultPopularity, second.Popularity)
	assert.Equal(t, models.NeutralAudioFeatures(), second.Features)
	assert.Equal(t, 0, second.DurationMs)
}

func TestReadCatalog_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"missing track_id column", "title,genre\nA,pop\n", "track_id"},
		{"empty file", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCatalog(strings.NewReader(tt.input), "catalog.csv")
			require.Error(t, err)
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, "catalog.csv", loadErr.Source)
			assert.Equal(t, tt.field, loadErr.Field)
		})
	}

	_, err := ReadCatalog(strings.NewReader("track_id,popularity\n1,loud\n"), "catalog.csv")
	assert.Error(t, err)

	_, err = ReadCatalog(strings.NewReader("track_id\n1\n1\n"), "catalog.csv")
	assert.Error(t, err)
}

func TestReadProfiles(t *testing.T) {
	input := `user_id,top_genres,preferred_moods,avg_energy_preference,listening_time_profile,skip_rate,platform_mix
Alice,"pop, rock","{'happy':0.15,'chill':0.55}",0.62,"{'morning': 0.5, 'night': 0.5}",0.1,{'mobile':1.0}
bob,jazz,not a dict,,{},,
`
	profiles, err := ReadProfiles(strings.NewReader(input), "profiles.csv")
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	alice := profiles[0]
	assert.Equal(t, "Alice", alice.UserID)
	assert.Equal(t, []string{"pop", "rock"}, alice.TopGenres)
	assert.Equal(t, map[string]float64{"happy": 0.15, "chill": 0.55}, alice.PreferredMoods)
	assert.Equal(t, 0.62, alice.AvgEnergyPreference)
	assert.Equal(t, map[string]float64{"morning": 0.5, "night": 0.5}, alice.ListeningTimeProfile)
	assert.Equal(t, map[string]float64{"mobile": 1.0}, alice.PlatformMix)

	bob := profiles[1]
	assert.Empty(t, bob.PreferredMoods)
	assert.Equal(t, models.DefaultFeatureValue, bob.AvgEnergyPreference)
	assert.Equal(t, 0.0, bob.SkipRate)
}

func TestParseWeights(t *testing.T) {
	assert.Equal(t, map[string]float64{"a": 1, "b": 0.5}, ParseWeights(`{"a": 1, 'b':0.5}`))
	assert.Empty(t, ParseWeights(""))
	assert.Empty(t, ParseWeights("{}"))
	assert.Empty(t, ParseWeights("{'a':x}"))
	assert.Empty(t, ParseWeights("[1,2]"))
}

func TestReadEvents(t *testing.T) {
	input := `user_id,session_id,spotify_id,event_type,time_of_day,skipped
u1,s1,abc,play,morning,False
u1,s1,def,play,night,True
`
	events, err := ReadEvents(strings.NewReader(input), "events.csv")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.TrackID("abc"), events[0].TrackID)
	assert.True(t, events[0].Played())
	assert.True(t, events[1].Skipped)
	assert.False(t, events[1].Played())

	_, err = ReadEvents(strings.NewReader("user_id,event_type,time_of_day\nu,play,night\n"), "events.csv")
	assert.Error(t, err)
}

func TestReadSessions(t *testing.T) {
	input := "user_id,session_id,self_reported_mood,activity_type\nu1,s1,Hype,Workout\nu1,s2,nan,\n"

	sessions, err := ReadSessions(strings.NewReader(input), "sessions.csv")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, models.MoodHype, sessions[0].ReportedMood)
	assert.Equal(t, models.ActivityWorkout, sessions[0].Activity)
	assert.Equal(t, models.Mood(""), sessions[1].ReportedMood)
	assert.Equal(t, models.ActivityNone, sessions[1].Activity)
}

func TestReadIndexes(t *testing.T) {
	input := `{
		"genre": {"pop": [1, 2]},
		"mood": {"sad": ["2", 3]},
		"energy": {},
		"title": {"love": [1]},
		"artist": {}
	}`
	idx, err := ReadIndexes(strings.NewReader(input), "indexes.json")
	require.NoError(t, err)

	assert.Equal(t, []models.TrackID{"1", "2"}, idx.Postings(search.FieldGenre, "pop"))
	assert.Equal(t, []models.TrackID{"2", "3"}, idx.Postings(search.FieldMood, "sad"))
	assert.Empty(t, idx.Tokens(search.FieldEnergy))
}

func TestReadIndexes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"missing field", `{"genre":{},"mood":{},"energy":{},"title":{}}`, search.ErrMissingIndexField},
		{"scalar posting", `{"genre":{"pop":1},"mood":{},"energy":{},"title":{},"artist":{}}`, search.ErrMalformedPostings},
		{"object posting", `{"genre":{},"mood":{"sad":{"a":1}},"energy":{},"title":{},"artist":{}}`, search.ErrMalformedPostings},
		{"bad id", `{"genre":{"pop":[true]},"mood":{},"energy":{},"title":{},"artist":{}}`, search.ErrMalformedPostings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadIndexes(strings.NewReader(tt.input), "indexes.json")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := ReadIndexes(strings.NewReader("not json"), "indexes.json")
	assert.Error(t, err)
}

func TestWriteIndexes_IsReadable(t *testing.T) {
	built := search.BuildIndex([]models.Track{
		{ID: "1", Title: "Love Song", ArtistName: "Lady Gaga", Genre: "pop", MoodBucket: models.MoodHappy, EnergyLabel: "medium"},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteIndexes(&buf, built))

	idx, err := ReadIndexes(&buf, "buffer")
	require.NoError(t, err)
	assert.Equal(t, []models.TrackID{"1"}, idx.Postings(search.FieldArtist, "gaga"))
	assert.Equal(t, []string{"medium"}, idx.Tokens(search.FieldEnergy))
}

func TestReadTimeContexts(t *testing.T) {
	input := `{
		"Alice": {
			"morning": {"typical_mood": "focus", "typical_activity": null, "top_genres": ["pop"], "event_count": 4, "confidence": 0.8},
			"brunch": {"typical_mood": "happy"}
		}
	}`
	contexts, err := ReadTimeContexts(strings.NewReader(input), "ctx.json")
	require.NoError(t, err)

	alice, ok := contexts["alice"]
	require.True(t, ok)
	require.Len(t, alice, 1)
	morning := alice[models.Morning]
	assert.Equal(t, models.MoodFocus, morning.TypicalMood)
	assert.Equal(t, models.ActivityNone, morning.TypicalActivity)
	assert.Equal(t, 4, morning.EventCount)
	assert.Equal(t, 0.8, morning.Confidence)
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalogCSV), 0o644))

	tracks, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, tracks, 2)

	_, err = LoadCatalog(filepath.Join(dir, "missing.csv"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
