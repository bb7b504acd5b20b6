package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/jukejam")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, CatalogSourceCSV, cfg.CatalogSource)
	assert.Equal(t, "jukejam", cfg.MongodbDatabase)
	assert.Equal(t, 10*time.Minute, cfg.SearchCacheTTL)
	assert.Equal(t, "http://127.0.0.1:8000/callback", cfg.SpotifyRedirectURI)
	assert.Equal(t, 100, cfg.SpotifyRateLimit)

	assert.Equal(t, filepath.Join("/srv/jukejam", "indexes", "indexes.json"), cfg.IndexesPath)
	assert.Equal(t, filepath.Join("/srv/jukejam", "indexes", "time_context_profiles.json"), cfg.TimeContextPath)
	assert.Equal(t, filepath.Join("/srv/jukejam", "data", "processed", "SONG_CATALOG.csv"), cfg.CatalogPath)
	assert.Equal(t, filepath.Join("/srv/jukejam", "data", "processed", "USER_PROFILE.csv"), cfg.ProfilesPath)
}

func TestLoad_ExplicitPathsWin(t *testing.T) {
	t.Setenv("INDEXES_PATH", "/tmp/idx.json")
	t.Setenv("SEARCH_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/idx.json", cfg.IndexesPath)
	assert.Equal(t, 30*time.Second, cfg.SearchCacheTTL)
}

func TestLoad_CatalogSource(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"mongo without url", map[string]string{"CATALOG_SOURCE": "mongo"}, true},
		{"mongo with url", map[string]string{"CATALOG_SOURCE": "Mongo", "MONGODB_URL": "mongodb://localhost:27017"}, false},
		{"unknown source", map[string]string{"CATALOG_SOURCE": "sqlite"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, CatalogSourceMongo, cfg.CatalogSource)
		})
	}
}

func TestSpotifyPlatformConfig(t *testing.T) {
	cfg := &Config{SpotifyRedirectURI: "http://localhost/callback", SpotifyRateLimit: 50}
	assert.False(t, cfg.Spotify().Enabled)

	cfg.SpotifyClientID = "id"
	cfg.SpotifyClientSecret = "secret"
	spotify := cfg.Spotify()
	assert.True(t, spotify.Enabled)
	assert.Equal(t, "https://accounts.spotify.com/api/token", spotify.TokenURL)
	assert.Equal(t, "http://localhost/callback", spotify.RedirectURI)
	assert.Equal(t, 50, spotify.RateLimit)
	assert.Contains(t, spotify.Scopes, "user-top-read")
}

func TestRankingConfig_ClampTopK(t *testing.T) {
	cfg := DefaultRankingConfig()
	assert.Equal(t, 20, cfg.ClampTopK(0))
	assert.Equal(t, 20, cfg.ClampTopK(-3))
	assert.Equal(t, 7, cfg.ClampTopK(7))
	assert.Equal(t, 100, cfg.ClampTopK(1000))
}

func TestLoadRankingConfigFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ranking.toml")
	require.NoError(t, os.WriteFile(path, []byte("title_weight = 3.5\nmax_top_k = 50\n"), 0o644))

	fileCfg, err := loadRankingConfigFromPath(path)
	require.NoError(t, err)

	cfg := DefaultRankingConfig()
	mergeRankingConfig(cfg, fileCfg)
	assert.Equal(t, 3.5, cfg.TitleWeight)
	assert.Equal(t, 1.0, cfg.ArtistWeight)
	assert.Equal(t, 50, cfg.MaxTopK)
	assert.Equal(t, 20, cfg.DefaultTopK)

	missing, err := loadRankingConfigFromPath(filepath.Join(dir, "absent.toml"))
	assert.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, os.WriteFile(path, []byte("title_weight = ["), 0o644))
	_, err = loadRankingConfigFromPath(path)
	assert.Error(t, err)
}

func TestStartRankingConfigWatcher_Reloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ranking.toml")
	require.NoError(t, os.WriteFile(path, []byte("evaluation_k = 5\n"), 0o644))
	t.Setenv("RANKING_CONFIG_PATH", path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartRankingConfigWatcher(ctx, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("evaluation_k = 7\n"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	assert.Eventually(t, func() bool {
		return GetRankingConfig().EvaluationK == 7
	}, 2*time.Second, 10*time.Millisecond)
}
