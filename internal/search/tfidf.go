package search

import (
	"math"
	"sort"

	"jukejam/internal/models"
)

// DefaultTopK is the result limit applied when the caller gives none
const DefaultTopK = 20

// TrackLookup resolves catalog records by id
type TrackLookup interface {
	Track(id models.TrackID) (*models.Track, bool)
	Len() int
}

// FieldWeights scales the term frequency of each text field
type FieldWeights struct {
	Title  float64 `json:"title" toml:"title_weight"`
	Artist float64 `json:"artist" toml:"artist_weight"`
}

// DefaultFieldWeights favors title matches over artist matches
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{Title: 2.0, Artist: 1.0}
}

// Scored is a ranked track id with its lexical score
type Scored struct {
	ID    models.TrackID `json:"track_id"`
	Score float64        `json:"score"`
}

// LexicalRanker orders candidates by TF-IDF over title and artist
type LexicalRanker struct {
	index   *Index
	tracks  TrackLookup
	weights FieldWeights
}

// NewLexicalRanker creates a ranker over an index and its catalog
func NewLexicalRanker(index *Index, tracks TrackLookup, weights FieldWeights) *LexicalRanker {
	return &LexicalRanker{index: index, tracks: tracks, weights: weights}
}

// IDF returns the smoothed inverse document frequency ln((N+1)/(df+1)) + 1.
// It is positive for every df in [0, N] and decreases as df grows.
func IDF(docFreq, totalDocs int) float64 {
	return math.Log(float64(totalDocs+1)/float64(docFreq+1)) + 1.0
}

// TermFrequency is the log-normalized frequency of a term: 0 if absent, else 1 + ln(count)
func TermFrequency(count int) float64 {
	if count <= 0 {
		return 0
	}
	return 1.0 + math.Log(float64(count))
}

// QueryTerms tokenizes and concatenates every query fragment
func QueryTerms(fragments ...string) []string {
	var terms []string
	for _, fragment := range fragments {
		terms = append(terms, Tokenize(fragment)...)
	}
	return terms
}

// Rank scores candidates against the query fragments and returns the top k.
// Without query terms the candidates are returned unscored in input order.
func (r *LexicalRanker) Rank(candidates []models.TrackID, fragments []string, topK int) []Scored {
	if topK <= 0 {
		topK = DefaultTopK
	}

	terms := QueryTerms(fragments...)
	if len(terms) == 0 {
		n := min(topK, len(candidates))
		out := make([]Scored, 0, n)
		for _, id := range candidates[:n] {
			out = append(out, Scored{ID: id})
		}
		return out
	}

	totalDocs := r.tracks.Len()
	idf := make(map[string]float64, len(terms))
	for _, term := range terms {
		if _, ok := idf[term]; !ok {
			idf[term] = IDF(r.index.DocFreq(term), totalDocs)
		}
	}

	scored := make([]Scored, 0, len(candidates))
	for _, id := range candidates {
		track, ok := r.tracks.Track(id)
		if !ok {
			continue
		}
		scored = append(scored, Scored{ID: id, Score: r.score(track, terms, idf)})
	}

	SortScored(scored)
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// score sums weighted field TF times IDF over every query term, repeats included
func (r *LexicalRanker) score(track *models.Track, terms []string, idf map[string]float64) float64 {
	titleCounts := countTokens(track.Title)
	artistCounts := countTokens(track.ArtistName)

	score := 0.0
	for _, term := range terms {
		tf := r.weights.Title*TermFrequency(titleCounts[term]) +
			r.weights.Artist*TermFrequency(artistCounts[term])
		score += tf * idf[term]
	}
	return score
}

// SortScored orders by descending score, then ascending track id
func SortScored(results []Scored) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID.Less(results[j].ID)
	})
}

func countTokens(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}
	return counts
}
