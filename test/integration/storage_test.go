//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"jukejam/internal/cache"
	"jukejam/internal/models"
	"jukejam/internal/repositories"
	"jukejam/internal/services"
	"jukejam/internal/testutil"
)

func requireEnv(t *testing.T, name string) string {
	t.Helper()
	value := os.Getenv(name)
	if value == "" {
		t.Skipf("%s not set; skipping integration test", name)
	}
	return value
}

func TestMongoTrackRepository_RoundTrip(t *testing.T) {
	mongoURL := requireEnv(t, "MONGODB_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := models.NewDatabase(ctx, mongoURL, "jukejam_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	defer func() {
		_ = db.DB.Drop(context.Background())
		_ = db.Close(context.Background())
	}()
	require.NoError(t, db.CreateIndexes(ctx))

	repo := repositories.NewMongoTrackRepository(db)
	tracks := testutil.SampleTracks()

	require.NoError(t, repo.SaveMany(ctx, tracks))
	// Upserting again must not duplicate
	require.NoError(t, repo.SaveMany(ctx, tracks[:2]))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(tracks)), count)

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, len(tracks))
	assert.Equal(t, tracks[0].Title, loaded[0].Title)
	assert.Equal(t, tracks[0].Features, loaded[0].Features)
}

func TestValkeyCache_RoundTrip(t *testing.T) {
	valkeyURL := requireEnv(t, "VALKEY_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := cache.New(valkeyURL, 10)
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Health(ctx))

	key := "jukejam:test:" + uuid.NewString()
	defer c.Delete(context.Background(), key)

	require.NoError(t, c.Set(ctx, key, []byte("hello"), time.Minute))
	data, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	exists, err := c.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.Delete(ctx, key))
	exists, err = c.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTokenStore_Valkey(t *testing.T) {
	valkeyURL := requireEnv(t, "VALKEY_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := cache.New(valkeyURL, 10)
	require.NoError(t, err)
	defer c.Close()

	store := services.NewTokenStore(c)
	userID := "it-" + uuid.NewString()
	token := services.StoredToken{
		Token: &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(time.Hour).Truncate(time.Second).UTC(),
		},
		DisplayName: "Integration",
	}

	require.NoError(t, store.Save(ctx, userID, token))
	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, token.Token.AccessToken, loaded.Token.AccessToken)
	assert.Equal(t, token.Token.RefreshToken, loaded.Token.RefreshToken)
	assert.True(t, token.Token.Expiry.Equal(loaded.Token.Expiry))
	assert.Equal(t, "Integration", loaded.DisplayName)
}
