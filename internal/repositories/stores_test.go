package repositories

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jukejam/internal/models"
)

func TestCatalog(t *testing.T) {
	catalog, err := NewCatalog([]models.Track{
		{ID: "10", Title: "Ten", Genre: "rock"},
		{ID: "2", Title: "Two", Genre: "pop"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.Len())
	assert.Equal(t, []models.TrackID{"2", "10"}, catalog.IDs())

	track, ok := catalog.Track("10")
	require.True(t, ok)
	assert.Equal(t, "Ten", track.Title)

	genre, ok := catalog.Genre("2")
	assert.True(t, ok)
	assert.Equal(t, "pop", genre)

	_, err = catalog.Get("404")
	assert.ErrorIs(t, err, ErrTrackNotFound)

	assert.Equal(t, "Two", catalog.Tracks()[0].Title)
}

func TestCatalog_RejectsDuplicateIDs(t *testing.T) {
	_, err := NewCatalog([]models.Track{{ID: "1"}, {ID: "1"}})
	assert.Error(t, err)
}

func TestProfileStore(t *testing.T) {
	store := NewProfileStore([]models.UserProfile{
		{UserID: "Bob", TopGenres: []string{"jazz"}},
		{UserID: "alice", TopGenres: []string{"pop"}},
	})

	p, err := store.Get("BOB")
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz"}, p.TopGenres)

	// Returned profiles are copies
	p.TopGenres[0] = "metal"
	again, err := store.Get("bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz"}, again.TopGenres)

	_, err = store.Get("carol")
	assert.ErrorIs(t, err, ErrUserNotFound)

	neutral, found := store.GetOrNeutral("carol")
	assert.False(t, found)
	assert.Equal(t, models.DefaultFeatureValue, neutral.AvgEnergyPreference)
	assert.Empty(t, neutral.TopGenres)

	first, ok := store.First()
	require.True(t, ok)
	assert.Equal(t, "alice", first.UserID)

	store.Put(models.UserProfile{UserID: "ALICE", TopGenres: []string{"house"}})
	assert.Equal(t, 2, store.Len())
	replaced, err := store.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"house"}, replaced.TopGenres)
}

func TestProfileStore_ConcurrentPutsAreWholesale(t *testing.T) {
	store := NewProfileStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			genre := fmt.Sprintf("g%d", i)
			store.Put(models.UserProfile{UserID: "u", TopGenres: []string{genre, genre}})
			_, _ = store.Get("u")
		}(i)
	}
	wg.Wait()

	p, err := store.Get("u")
	require.NoError(t, err)
	require.Len(t, p.TopGenres, 2)
	assert.Equal(t, p.TopGenres[0], p.TopGenres[1])
}

func TestProfileStore_EmptyFirst(t *testing.T) {
	_, ok := NewProfileStore(nil).First()
	assert.False(t, ok)
}

func TestTimeContextStore(t *testing.T) {
	store := NewTimeContextStore(map[string]models.UserTimeContext{
		"Alice": {models.Morning: {TypicalMood: models.MoodFocus, TopGenres: []string{"pop"}, Confidence: 1}},
	})

	ctx, ok := store.Get("alice")
	require.True(t, ok)
	assert.Equal(t, models.MoodFocus, ctx[models.Morning].TypicalMood)

	ctx[models.Morning].TopGenres[0] = "changed"
	again, _ := store.Get("ALICE")
	assert.Equal(t, []string{"pop"}, again[models.Morning].TopGenres)

	_, ok = store.Get("bob")
	assert.False(t, ok)

	store.Put("Bob", models.UserTimeContext{models.Night: {TypicalMood: models.MoodSad}})
	assert.Equal(t, 2, store.Len())
	assert.Contains(t, store.Snapshot(), "bob")
}

func TestTrackDocument_DefaultsMissingFields(t *testing.T) {
	track := trackDocument{TrackID: "7", Title: "Seven", MoodBucket: "Chill"}.toTrack()

	assert.Equal(t, models.TrackID("7"), track.ID)
	assert.Equal(t, models.DefaultPopularity, track.Popularity)
	assert.Equal(t, models.NeutralAudioFeatures(), track.Features)
	assert.Equal(t, models.MoodChill, track.MoodBucket)

	roundTrip := newTrackDocument(track).toTrack()
	assert.Equal(t, track, roundTrip)
}
