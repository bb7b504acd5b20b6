package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jukejam/internal/cache"
	"jukejam/internal/config"
	"jukejam/internal/models"
	"jukejam/internal/search"
)

func newTestSearchService(t *testing.T) (*SearchService, *cache.MemoryCache) {
	t.Helper()

	stores := newTestStores(t)
	mem := cache.NewMemoryCache(100)
	svc := NewSearchService(stores.index, stores.catalog, mem, 0)
	svc.ranking = config.DefaultRankingConfig
	return svc, mem
}

func TestSearchService_TitleQueryRanksByTFIDF(t *testing.T) {
	svc, _ := newTestSearchService(t)

	results := svc.Search(context.Background(), SearchRequest{Title: "love"})

	require.Len(t, results, 2)
	// "Love Love" repeats the term and outranks "Love Song"
	assert.Equal(t, []models.TrackID{"2", "1"}, resultIDs(results))
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.Nil(t, results[0].ScoreBreakdown)
	assert.Empty(t, results[0].Explanation)
}

func TestSearchService_Filters(t *testing.T) {
	svc, _ := newTestSearchService(t)

	tests := []struct {
		name     string
		req      SearchRequest
		expected []models.TrackID
	}{
		{
			name:     "genre and mood are intersected",
			req:      SearchRequest{Genres: []string{"rock"}, Mood: "hype"},
			expected: []models.TrackID{"3"},
		},
		{
			name:     "genres are ORed",
			req:      SearchRequest{Genres: []string{"rock", "indie"}},
			expected: []models.TrackID{"3", "4"},
		},
		{
			name:     "artist and energy",
			req:      SearchRequest{Artist: "quiet hours", Energy: "Calm"},
			expected: []models.TrackID{"2", "4"},
		},
		{
			name:     "title tokens are ANDed",
			req:      SearchRequest{Title: "love song"},
			expected: []models.TrackID{"1"},
		},
		{
			name:     "no active filter returns nothing",
			req:      SearchRequest{Genres: []string{" "}},
			expected: []models.TrackID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := svc.Search(context.Background(), tt.req)
			assert.ElementsMatch(t, tt.expected, resultIDs(results))
		})
	}
}

func TestSearchService_TopKIsClamped(t *testing.T) {
	svc, _ := newTestSearchService(t)
	svc.ranking = func() *config.RankingConfig {
		cfg := config.DefaultRankingConfig()
		cfg.MaxTopK = 1
		return cfg
	}

	results := svc.Search(context.Background(), SearchRequest{Genres: []string{"pop"}, TopK: 50})
	assert.Len(t, results, 1)
}

func TestSearchService_CachesRankedIDs(t *testing.T) {
	svc, mem := newTestSearchService(t)
	ctx := context.Background()
	req := SearchRequest{Title: "love"}

	first := svc.Search(ctx, req)
	require.Equal(t, 1, mem.Size())

	var cached []search.Scored
	found, err := cache.GetJSON(ctx, mem, searchCacheKey(req, 20, search.DefaultFieldWeights()), &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, cached, len(first))

	second := svc.Search(ctx, req)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, mem.Size())
}

func TestSearchCacheKey(t *testing.T) {
	weights := search.DefaultFieldWeights()
	base := searchCacheKey(SearchRequest{Title: "Love", Genres: []string{"Pop"}}, 20, weights)

	assert.Equal(t, base, searchCacheKey(SearchRequest{Title: "love", Genres: []string{" pop "}}, 20, weights))
	assert.NotEqual(t, base, searchCacheKey(SearchRequest{Title: "love", Genres: []string{"pop"}}, 10, weights))
	assert.NotEqual(t, base, searchCacheKey(SearchRequest{Artist: "love", Genres: []string{"pop"}}, 20, weights))
	assert.Contains(t, base, searchCachePrefix)
}
