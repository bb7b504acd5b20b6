package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jukejam/internal/config"
	"jukejam/internal/models"
	"jukejam/internal/repositories"
	"jukejam/internal/search"
	"jukejam/internal/testutil"
)

// testStores bundles the in-memory stores built from the sample fixtures
type testStores struct {
	index    *search.Index
	catalog  *repositories.Catalog
	profiles *repositories.ProfileStore
	contexts *repositories.TimeContextStore
}

func newTestStores(t *testing.T) testStores {
	t.Helper()

	tracks := testutil.SampleTracks()
	catalog, err := repositories.NewCatalog(tracks)
	require.NoError(t, err)

	return testStores{
		index:    search.BuildIndex(tracks),
		catalog:  catalog,
		profiles: repositories.NewProfileStore(testutil.SampleProfiles()),
		contexts: repositories.NewTimeContextStore(map[string]models.UserTimeContext{}),
	}
}

// newTestRecommender pins the ranking config and the clock to at
func newTestRecommender(t *testing.T, at time.Time) (*RecommendationService, testStores) {
	t.Helper()

	stores := newTestStores(t)
	svc := NewRecommendationService(stores.index, stores.catalog, stores.profiles, stores.contexts)
	svc.ranking = config.DefaultRankingConfig
	svc.now = func() time.Time { return at }
	return svc, stores
}

func resultIDs(results []SongResult) []models.TrackID {
	ids := make([]models.TrackID, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.TrackID)
	}
	return ids
}

// newSpotifyTestClient points a client at a mock accounts service and Web API
func newSpotifyTestClient(server *testutil.MockHTTPServer) *SpotifyClient {
	return NewSpotifyClient(&config.PlatformConfig{
		Name:         "spotify",
		Enabled:      true,
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		AuthURL:      server.URL() + "/authorize",
		TokenURL:     server.URL() + "/api/token",
		BaseURL:      server.URL() + "/v1",
		RedirectURI:  "http://127.0.0.1:8000/callback",
		Scopes:       config.SpotifyScopes,
		RateLimit:    6000,
		Timeout:      5 * time.Second,
	})
}
