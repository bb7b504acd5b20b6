package scoring

import (
	"math"
	"sort"
	"strings"

	"jukejam/internal/models"
)

// Blend weights of the final score
const (
	WeightSimilarity = 0.45
	WeightMood       = 0.25
	WeightGenre      = 0.15
	WeightPopularity = 0.15

	adjacentMoodScore = 0.3
)

// Tracks resolves candidate ids to catalog records
type Tracks interface {
	Track(id models.TrackID) (*models.Track, bool)
}

// Breakdown provides the component scores behind a final score, rounded to 4 decimals
type Breakdown struct {
	AudioSimilarity float64 `json:"audio_similarity"`
	MoodMatch       float64 `json:"mood_match"`
	GenreMatch      float64 `json:"genre_match"`
	Popularity      float64 `json:"popularity"`
	FinalScore      float64 `json:"final_score"`
}

// Ranked is a reranked candidate. Score is unrounded and drives ordering.
type Ranked struct {
	ID        models.TrackID `json:"track_id"`
	Score     float64        `json:"score"`
	Breakdown Breakdown      `json:"breakdown"`
}

// Reranker orders retrieved candidates by audio similarity and profile signals
type Reranker struct {
	tracks Tracks
}

// NewReranker creates a reranker over a catalog
func NewReranker(tracks Tracks) *Reranker {
	return &Reranker{tracks: tracks}
}

// adjacentMoods is keyed by the candidate's mood and lists the targets that accept it
func adjacentMoods(candidate models.Mood) []models.Mood {
	switch candidate {
	case models.MoodHappy:
		return []models.Mood{models.MoodHype, models.MoodChill}
	case models.MoodHype:
		return []models.Mood{models.MoodHappy}
	case models.MoodChill:
		return []models.Mood{models.MoodHappy, models.MoodSad, models.MoodFocus}
	case models.MoodSad:
		return []models.Mood{models.MoodChill, models.MoodFocus}
	case models.MoodFocus:
		return []models.Mood{models.MoodChill, models.MoodSad}
	default:
		return nil
	}
}

// MoodMatch scores a candidate mood against the target: 1 exact, 0.3 adjacent, else 0
func MoodMatch(candidate, target models.Mood) float64 {
	if candidate == "" || target == "" {
		return 0
	}
	if candidate == target {
		return 1
	}
	for _, m := range adjacentMoods(candidate) {
		if m == target {
			return adjacentMoodScore
		}
	}
	return 0
}

// GenreMatch reports 1 when genre is among topGenres, ignoring case
func GenreMatch(genre string, topGenres []string) float64 {
	if genre == "" {
		return 0
	}
	for _, g := range topGenres {
		if strings.EqualFold(g, genre) {
			return 1
		}
	}
	return 0
}

// PopularityScore scales 0-100 popularity into [0,1]
func PopularityScore(popularity int) float64 {
	return float64(popularity) / 100.0
}

// Score computes the blended score of one track against a target vector
func Score(track *models.Track, target FeatureVector, mood models.Mood, topGenres []string) (float64, Breakdown) {
	sim := Cosine(target, VectorOf(track.Features))
	moodScore := MoodMatch(track.MoodBucket, mood)
	genreScore := GenreMatch(track.Genre, topGenres)
	popScore := PopularityScore(track.Popularity)

	final := WeightSimilarity*sim + WeightMood*moodScore + WeightGenre*genreScore + WeightPopularity*popScore

	return final, Breakdown{
		AudioSimilarity: round4(sim),
		MoodMatch:       round4(moodScore),
		GenreMatch:      round4(genreScore),
		Popularity:      round4(popScore),
		FinalScore:      round4(final),
	}
}

// Rank scores candidates for the profile and context and returns the top k.
// Candidates missing from the catalog are skipped.
func (r *Reranker) Rank(candidates []models.TrackID, profile models.UserProfile, mood models.Mood, activity models.Activity, topK int) []Ranked {
	target := TargetVector(profile, mood, activity)

	ranked := make([]Ranked, 0, len(candidates))
	for _, id := range candidates {
		track, ok := r.tracks.Track(id)
		if !ok {
			continue
		}
		score, breakdown := Score(track, target, mood, profile.TopGenres)
		ranked = append(ranked, Ranked{ID: id, Score: score, Breakdown: breakdown})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID.Less(ranked[j].ID)
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
