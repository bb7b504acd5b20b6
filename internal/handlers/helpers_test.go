package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"jukejam/internal/cache"
	"jukejam/internal/models"
	"jukejam/internal/repositories"
	"jukejam/internal/search"
	"jukejam/internal/services"
	"jukejam/internal/testutil"
	"jukejam/internal/testutil/servicetest"
)

// testEnv is a fully wired router over the sample fixtures
type testEnv struct {
	router   *gin.Engine
	http     *testutil.HTTPTestHelper
	spotify  *servicetest.MockSpotifyAPI
	profiles *repositories.ProfileStore
	contexts *repositories.TimeContextStore
	tokens   *services.TokenStore
}

type envOptions struct {
	spotify    bool
	noProfiles bool
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tracks := testutil.SampleTracks()
	catalog, err := repositories.NewCatalog(tracks)
	require.NoError(t, err)
	index := search.BuildIndex(tracks)

	seed := testutil.SampleProfiles()
	if opts.noProfiles {
		seed = nil
	}
	profiles := repositories.NewProfileStore(seed)
	contexts := repositories.NewTimeContextStore(map[string]models.UserTimeContext{})

	mem := cache.NewMemoryCache(100)
	tokens := services.NewTokenStore(mem)

	env := &testEnv{profiles: profiles, contexts: contexts, tokens: tokens}

	var api services.SpotifyAPI
	if opts.spotify {
		env.spotify = &servicetest.MockSpotifyAPI{}
		api = env.spotify
	}

	searchService := services.NewSearchService(index, catalog, mem, 0)
	recommender := services.NewRecommendationService(index, catalog, profiles, contexts)
	profileService := services.NewProfileService(profiles, contexts, tokens, api, services.NewStateSigner("test-secret"))

	env.router = NewRouter(Handlers{
		Search:     NewSearchHandler(searchService, index),
		Recommend:  NewRecommendHandler(recommender),
		Users:      NewUserHandler(profiles, profileService),
		Evaluation: NewEvaluationHandler(services.NewEvaluationService(recommender)),
		Spotify:    NewSpotifyHandler(profileService),
		Health:     NewHealthHandler(catalog, profiles, contexts, mem),
	})
	env.http = testutil.NewHTTPTestHelper(t, env.router)
	return env
}
