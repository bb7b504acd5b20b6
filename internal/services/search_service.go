package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"jukejam/internal/cache"
	"jukejam/internal/config"
	"jukejam/internal/metrics"
	"jukejam/internal/repositories"
	"jukejam/internal/search"
)

const searchCachePrefix = "search:"

// SearchRequest is a text search with optional categorical filters
type SearchRequest struct {
	Title  string   `json:"title,omitempty"`
	Artist string   `json:"artist,omitempty"`
	Genres []string `json:"genres,omitempty"`
	Mood   string   `json:"mood,omitempty"`
	Energy string   `json:"energy,omitempty"`
	TopK   int      `json:"top_k,omitempty"`
}

// SearchService retrieves candidates from the index and ranks them with TF-IDF
type SearchService struct {
	index   *search.Index
	catalog *repositories.Catalog
	cache   cache.Cache
	ttl     time.Duration
	ranking func() *config.RankingConfig
}

// NewSearchService creates a search service. Ranked ids are cached for ttl.
func NewSearchService(index *search.Index, catalog *repositories.Catalog, c cache.Cache, ttl time.Duration) *SearchService {
	return &SearchService{
		index:   index,
		catalog: catalog,
		cache:   c,
		ttl:     ttl,
		ranking: config.GetRankingConfig,
	}
}

// Search runs the query. Cache failures are logged and treated as misses.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) []SongResult {
	cfg := s.ranking()
	topK := cfg.ClampTopK(req.TopK)
	weights := search.FieldWeights{Title: cfg.TitleWeight, Artist: cfg.ArtistWeight}
	key := searchCacheKey(req, topK, weights)

	var ranked []search.Scored
	found, err := cache.GetJSON(ctx, s.cache, key, &ranked)
	if err != nil {
		slog.Warn("Failed to read search cache", "key", key, "error", err)
	}
	metrics.RecordSearchCache(found)
	if found {
		return s.results(ranked)
	}

	start := time.Now()
	candidates := search.Retrieve(s.index, search.Filters{
		Title:  req.Title,
		Artist: req.Artist,
		Genres: req.Genres,
		Mood:   req.Mood,
		Energy: req.Energy,
	}).Sorted()
	ranked = search.NewLexicalRanker(s.index, s.catalog, weights).
		Rank(candidates, []string{req.Title, req.Artist}, topK)
	metrics.RecordRanking("search", len(candidates), time.Since(start))

	if err := cache.SetJSON(ctx, s.cache, key, ranked, s.ttl); err != nil {
		slog.Warn("Failed to write search cache", "key", key, "error", err)
	}
	return s.results(ranked)
}

func (s *SearchService) results(ranked []search.Scored) []SongResult {
	results := make([]SongResult, 0, len(ranked))
	for _, r := range ranked {
		track, ok := s.catalog.Track(r.ID)
		if !ok {
			continue
		}
		results = append(results, newSongResult(track, r.Score))
	}
	return results
}

// searchCacheKey hashes every input that affects the ranked output
func searchCacheKey(req SearchRequest, topK int, weights search.FieldWeights) string {
	genres := make([]string, len(req.Genres))
	for i, g := range req.Genres {
		genres[i] = strings.ToLower(strings.TrimSpace(g))
	}

	var b strings.Builder
	for _, part := range []string{
		strings.ToLower(req.Title),
		strings.ToLower(req.Artist),
		strings.Join(genres, ","),
		strings.ToLower(strings.TrimSpace(req.Mood)),
		strings.ToLower(strings.TrimSpace(req.Energy)),
		strconv.Itoa(topK),
		strconv.FormatFloat(weights.Title, 'g', -1, 64),
		strconv.FormatFloat(weights.Artist, 'g', -1, 64),
	} {
		b.WriteString(part)
		b.WriteByte(0)
	}
	return searchCachePrefix + strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}
