package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jukejam/internal/models"
)

type catalog map[models.TrackID]*models.Track

func (c catalog) Track(id models.TrackID) (*models.Track, bool) {
	t, ok := c[id]
	return t, ok
}

func TestNormalizeTempo(t *testing.T) {
	tests := []struct {
		bpm  float64
		want float64
	}{
		{40, 0},
		{220, 1},
		{130, 0.5},
		{10, 0},
		{300, 1},
		{models.DefaultFeatureValue, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeTempo(tt.bpm), 1e-12, "bpm=%v", tt.bpm)
	}
}

func TestVectorOf_FeatureOrder(t *testing.T) {
	v := VectorOf(models.AudioFeatures{Energy: 0.1, Valence: 0.2, Danceability: 0.3, Acousticness: 0.4, Tempo: 220})
	assert.Equal(t, FeatureVector{0.1, 0.2, 0.3, 0.4, 1}, v)

	raw := RawVectorOf(models.NeutralAudioFeatures())
	assert.Equal(t, FeatureVector{0.5, 0.5, 0.5, 0.5, 0.5}, raw)
}

func TestCosine(t *testing.T) {
	a := FeatureVector{0.8, 0.2, 0.5, 0.1, 0.6}
	b := FeatureVector{0.3, 0.9, 0.4, 0.7, 0.2}

	assert.InDelta(t, 1.0, Cosine(a, a), 1e-12)
	assert.InDelta(t, Cosine(a, b), Cosine(b, a), 1e-12)
	assert.Equal(t, 0.0, Cosine(a, FeatureVector{}))
	assert.Equal(t, 0.0, Cosine(FeatureVector{}, FeatureVector{}))
	assert.InDelta(t, 1.0, Cosine(a, FeatureVector{1.6, 0.4, 1.0, 0.2, 1.2}), 1e-12)
}

func TestTargetVector(t *testing.T) {
	profile := models.UserProfile{AvgEnergyPreference: 0.4}

	t.Run("activity overrides energy", func(t *testing.T) {
		v := TargetVector(profile, models.MoodHype, models.ActivityWorkout)
		assert.InDelta(t, 0.85, v[DimEnergy], 1e-12)
		assert.InDelta(t, 0.75, v[DimValence], 1e-12)
		assert.InDelta(t, 0.85, v[DimDanceability], 1e-12)
		assert.InDelta(t, 0.15, v[DimAcousticness], 1e-12)
		assert.InDelta(t, 0.5556, v[DimTempo], 1e-4)
	})

	t.Run("profile energy without activity", func(t *testing.T) {
		v := TargetVector(profile, models.MoodSad, models.ActivityNone)
		assert.InDelta(t, 0.4, v[DimEnergy], 1e-12)
		assert.InDelta(t, 0.2, v[DimValence], 1e-12)
		assert.InDelta(t, (85.0-40)/180, v[DimTempo], 1e-12)
	})

	t.Run("unknown mood and activity fall back", func(t *testing.T) {
		v := TargetVector(models.NeutralProfile("x"), models.Mood("melancholic"), models.Activity("gaming"))
		assert.Equal(t, FeatureVector{0.5, 0.5, 0.5, 0.5, (110.0 - 40) / 180}, v)
	})
}

func TestActivityEnergy(t *testing.T) {
	for activity, want := range map[models.Activity]float64{
		models.ActivityWorkout: 0.85,
		models.ActivityStudy:   0.25,
		models.ActivityRelax:   0.20,
		models.ActivityCommute: 0.55,
	} {
		got, ok := ActivityEnergy(activity)
		require.True(t, ok, activity)
		assert.Equal(t, want, got)
	}
	_, ok := ActivityEnergy(models.ActivityNone)
	assert.False(t, ok)
}

func TestMoodMatch(t *testing.T) {
	tests := []struct {
		candidate models.Mood
		target    models.Mood
		want      float64
	}{
		{models.MoodHype, models.MoodHype, 1},
		{models.MoodHappy, models.MoodHype, 0.3},
		{models.MoodHype, models.MoodHappy, 0.3},
		{models.MoodChill, models.MoodFocus, 0.3},
		{models.MoodSad, models.MoodChill, 0.3},
		{models.MoodHype, models.MoodChill, 0},
		{models.MoodChill, models.MoodHype, 0},
		{models.MoodHappy, models.MoodFocus, 0},
		{models.MoodHype, models.MoodSad, 0},
		{"", models.MoodSad, 0},
		{models.MoodSad, "", 0},
		{"angry", models.MoodHappy, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MoodMatch(tt.candidate, tt.target), "%s -> %s", tt.candidate, tt.target)
	}
}

func TestGenreMatch(t *testing.T) {
	assert.Equal(t, 1.0, GenreMatch("Pop", []string{"pop", "rock"}))
	assert.Equal(t, 1.0, GenreMatch("rock", []string{"POP", "Rock"}))
	assert.Equal(t, 0.0, GenreMatch("jazz", []string{"pop", "rock"}))
	assert.Equal(t, 0.0, GenreMatch("", []string{"pop"}))
	assert.Equal(t, 0.0, GenreMatch("pop", nil))
}

func TestReranker_Rank(t *testing.T) {
	tracks := catalog{
		"1": {ID: "1", Genre: "pop", MoodBucket: models.MoodHype, Popularity: 90,
			Features: models.AudioFeatures{Energy: 0.9, Valence: 0.8, Danceability: 0.85, Acousticness: 0.1, Tempo: 140}},
		"2": {ID: "2", Genre: "folk", MoodBucket: models.MoodSad, Popularity: 20,
			Features: models.AudioFeatures{Energy: 0.2, Valence: 0.2, Danceability: 0.3, Acousticness: 0.9, Tempo: 80}},
		"3": {ID: "3", Genre: "Pop", MoodBucket: models.MoodHappy, Popularity: 60,
			Features: models.AudioFeatures{Energy: 0.7, Valence: 0.8, Danceability: 0.7, Acousticness: 0.3, Tempo: 120}},
	}
	profile := models.UserProfile{UserID: "u", TopGenres: []string{"pop"}, AvgEnergyPreference: 0.5}
	reranker := NewReranker(tracks)

	results := reranker.Rank([]models.TrackID{"2", "3", "1", "404"}, profile, models.MoodHype, models.ActivityWorkout, 10)

	require.Len(t, results, 3)
	assert.Equal(t, models.TrackID("1"), results[0].ID)
	assert.Equal(t, models.TrackID("3"), results[1].ID)
	assert.Equal(t, models.TrackID("2"), results[2].ID)

	top := results[0].Breakdown
	assert.Equal(t, 1.0, top.MoodMatch)
	assert.Equal(t, 1.0, top.GenreMatch)
	assert.Equal(t, 0.9, top.Popularity)
	assert.Equal(t, 0.3, results[1].Breakdown.MoodMatch)
	assert.Equal(t, 1.0, results[1].Breakdown.GenreMatch)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
		assert.InDelta(t, r.Score, r.Breakdown.FinalScore, 1e-4)
	}

	truncated := reranker.Rank([]models.TrackID{"2", "3", "1"}, profile, models.MoodHype, models.ActivityWorkout, 1)
	require.Len(t, truncated, 1)
	assert.Equal(t, models.TrackID("1"), truncated[0].ID)
}

func TestReranker_TiesBreakByID(t *testing.T) {
	features := models.AudioFeatures{Energy: 0.5, Valence: 0.5, Danceability: 0.5, Acousticness: 0.5, Tempo: 110}
	tracks := catalog{
		"20": {ID: "20", Popularity: 50, Features: features},
		"3":  {ID: "3", Popularity: 50, Features: features},
	}
	results := NewReranker(tracks).Rank([]models.TrackID{"20", "3"}, models.NeutralProfile("u"), models.MoodChill, "", 5)

	require.Len(t, results, 2)
	assert.Equal(t, models.TrackID("3"), results[0].ID)
	assert.Equal(t, results[0].Score, results[1].Score)
}

func TestScore_StaysInUnitRange(t *testing.T) {
	extremes := []models.Track{
		{Popularity: 0},
		{Popularity: 100, Genre: "pop", MoodBucket: models.MoodFocus,
			Features: models.AudioFeatures{Energy: 1, Valence: 1, Danceability: 1, Acousticness: 1, Tempo: 400}},
		{Popularity: 100, Genre: "pop", MoodBucket: models.MoodFocus,
			Features: models.AudioFeatures{Energy: 0.25, Valence: 0.4, Danceability: 0.35, Acousticness: 0.5, Tempo: 100}},
	}
	profile := models.UserProfile{TopGenres: []string{"pop"}, AvgEnergyPreference: 0.5}
	for _, mood := range models.Moods {
		target := TargetVector(profile, mood, models.ActivityStudy)
		for i := range extremes {
			final, _ := Score(&extremes[i], target, models.MoodFocus, profile.TopGenres)
			assert.GreaterOrEqual(t, final, 0.0)
			assert.LessOrEqual(t, final, 1.0+1e-12)
		}
	}
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name      string
		track     models.Track
		breakdown Breakdown
		mood      models.Mood
		activity  models.Activity
		want      string
	}{
		{
			name:      "excellent match with workout energy",
			track:     models.Track{MoodBucket: models.MoodHype, Genre: "Pop", Popularity: 80, Features: models.AudioFeatures{Energy: 0.9}},
			breakdown: Breakdown{AudioSimilarity: 0.97, MoodMatch: 1},
			mood:      models.MoodHype,
			activity:  models.ActivityWorkout,
			want: `Audio profile is an excellent match (97%) · High energy (0.90) fits workout · ` +
				`Mood "hype" matches your selection · Genre "Pop" is in your top genres · Popular track (popularity 80/100)`,
		},
		{
			name:      "strong similarity with adjacent mood",
			track:     models.Track{MoodBucket: models.MoodChill, Genre: "jazz", Popularity: 10, Features: models.AudioFeatures{Energy: 0.3}},
			breakdown: Breakdown{AudioSimilarity: 0.9, MoodMatch: 0.3},
			mood:      models.MoodFocus,
			activity:  models.ActivityStudy,
			want:      `Strong audio-feature similarity (90%) · Low energy (0.30) suits study · Mood "chill" is adjacent to "focus"`,
		},
		{
			name:      "nothing fires",
			track:     models.Track{MoodBucket: models.MoodSad, Genre: "metal", Popularity: 40, Features: models.AudioFeatures{Energy: 0.6}},
			breakdown: Breakdown{AudioSimilarity: 0.5},
			mood:      models.MoodHappy,
			activity:  models.ActivityRelax,
			want:      "Matches your current context filters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Explain(&tt.track, tt.breakdown, []string{"pop"}, tt.mood, tt.activity)
			assert.Equal(t, tt.want, got)
		})
	}
}
