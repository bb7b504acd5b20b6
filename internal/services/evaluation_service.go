package services

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"jukejam/internal/models"
	"jukejam/internal/scoring"
)

var englishPrinter = message.NewPrinter(language.English)

// ErrNoProfiles is returned by evaluation when no user profiles are loaded
var ErrNoProfiles = errors.New("no user profiles loaded")

// evaluationCase is a fixed query with the labels a good result should carry
type evaluationCase struct {
	Mood         models.Mood
	Activity     models.Activity
	ExpectEnergy string
	ExpectMood   models.Mood
}

var evaluationCases = []evaluationCase{
	{Mood: models.MoodHype, Activity: models.ActivityWorkout, ExpectEnergy: models.EnergyEnergetic, ExpectMood: models.MoodHype},
	{Mood: models.MoodChill, Activity: models.ActivityRelax, ExpectEnergy: models.EnergyCalm, ExpectMood: models.MoodChill},
	{Mood: models.MoodSad, Activity: models.ActivityNone, ExpectEnergy: models.EnergyCalm, ExpectMood: models.MoodSad},
	{Mood: models.MoodHappy, Activity: models.ActivityCommute, ExpectEnergy: models.EnergyMedium, ExpectMood: models.MoodHappy},
	{Mood: models.MoodFocus, Activity: models.ActivityStudy, ExpectEnergy: models.EnergyCalm, ExpectMood: models.MoodFocus},
}

// contextShiftCase pins the energy filter instead of deriving it
type contextShiftCase struct {
	Mood     models.Mood
	Activity models.Activity
	Energy   string
}

var contextShiftCases = []contextShiftCase{
	{Mood: models.MoodChill, Activity: models.ActivityStudy, Energy: models.EnergyCalm},
	{Mood: models.MoodHype, Activity: models.ActivityWorkout, Energy: models.EnergyEnergetic},
}

const contextShiftTopK = 10

// EvaluatedTrack summarizes a top result of an evaluation query
type EvaluatedTrack struct {
	Title      string      `json:"title"`
	Artist     string      `json:"artist"`
	Energy     float64     `json:"energy"`
	Valence    float64     `json:"valence"`
	MoodBucket models.Mood `json:"mood_bucket"`
	Score      float64     `json:"score"`
}

// EvaluationResult reports precision@k for one query
type EvaluationResult struct {
	Query              string           `json:"query"`
	CandidatesFound    int              `json:"candidates_found"`
	TopK               int              `json:"top_k"`
	MoodPrecisionAtK   float64          `json:"mood_precision_at_k"`
	EnergyPrecisionAtK float64          `json:"energy_precision_at_k"`
	AvgScore           float64          `json:"avg_score"`
	Top3               []EvaluatedTrack `json:"top_3"`
}

// EvaluationReport is the /evaluate response
type EvaluationReport struct {
	UserID            string             `json:"user_id"`
	UserTopGenres     []string           `json:"user_top_genres"`
	EvaluationResults []EvaluationResult `json:"evaluation_results"`
}

// ShiftedTrack is a top result of a context-shift query
type ShiftedTrack struct {
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	Score  float64 `json:"score"`
}

// ContextComparison summarizes the results of one context
type ContextComparison struct {
	Context           string         `json:"context"`
	CandidatePoolSize int            `json:"candidate_pool_size"`
	Top10AvgEnergy    float64        `json:"top_10_avg_energy"`
	Top10AvgValence   float64        `json:"top_10_avg_valence"`
	Top10AvgScore     float64        `json:"top_10_avg_score"`
	Top3              []ShiftedTrack `json:"top_3"`
}

// ContextShiftReport is the /context-shift response
type ContextShiftReport struct {
	UserID     string              `json:"user_id"`
	Comparison []ContextComparison `json:"comparison"`
	Insight    string              `json:"insight"`
}

// EvaluationService runs fixed offline queries against the first loaded user
type EvaluationService struct {
	recommender *RecommendationService
}

// NewEvaluationService creates an evaluation service on top of the recommender
func NewEvaluationService(recommender *RecommendationService) *EvaluationService {
	return &EvaluationService{recommender: recommender}
}

// Evaluate reports mood and energy precision@k for each fixed case
func (s *EvaluationService) Evaluate() (*EvaluationReport, error) {
	profile, ok := s.recommender.profiles.First()
	if !ok {
		return nil, ErrNoProfiles
	}
	k := s.recommender.ranking().EvaluationK

	results := make([]EvaluationResult, 0, len(evaluationCases))
	for _, tc := range evaluationCases {
		ranked, pool := s.recommender.rank("evaluate", contextQuery{
			Profile:  profile,
			Genres:   profile.TopGenres,
			Mood:     tc.Mood,
			Activity: tc.Activity,
			Energy:   EnergyFilter(tc.Mood, tc.Activity),
			TopK:     k,
		})
		results = append(results, s.evaluateCase(tc, ranked, pool))
	}

	return &EvaluationReport{
		UserID:            profile.UserID,
		UserTopGenres:     profile.TopGenres,
		EvaluationResults: results,
	}, nil
}

func (s *EvaluationService) evaluateCase(tc evaluationCase, ranked []scoring.Ranked, pool int) EvaluationResult {
	result := EvaluationResult{
		Query:           fmt.Sprintf("mood=%s, activity=%s", tc.Mood, activityLabel(tc.Activity)),
		CandidatesFound: pool,
		TopK:            len(ranked),
		Top3:            []EvaluatedTrack{},
	}

	var moodHits, energyHits int
	var total float64
	for _, r := range ranked {
		track, ok := s.recommender.catalog.Track(r.ID)
		if !ok {
			continue
		}
		if track.MoodBucket == tc.ExpectMood {
			moodHits++
		}
		if track.EnergyLabel == tc.ExpectEnergy {
			energyHits++
		}
		total += r.Score
		if len(result.Top3) < 3 {
			result.Top3 = append(result.Top3, EvaluatedTrack{
				Title:      track.Title,
				Artist:     track.ArtistName,
				Energy:     track.Features.Energy,
				Valence:    track.Features.Valence,
				MoodBucket: track.MoodBucket,
				Score:      round(r.Score, 4),
			})
		}
	}

	if n := float64(len(ranked)); n > 0 {
		result.MoodPrecisionAtK = round(float64(moodHits)/n, 2)
		result.EnergyPrecisionAtK = round(float64(energyHits)/n, 2)
		result.AvgScore = round(total/n, 4)
	}
	return result
}

// ContextShift compares a calm study context against an energetic workout context
func (s *EvaluationService) ContextShift() (*ContextShiftReport, error) {
	profile, ok := s.recommender.profiles.First()
	if !ok {
		return nil, ErrNoProfiles
	}

	comparisons := make([]ContextComparison, 0, len(contextShiftCases))
	for _, tc := range contextShiftCases {
		ranked, pool := s.recommender.rank("context_shift", contextQuery{
			Profile:  profile,
			Genres:   profile.TopGenres,
			Mood:     tc.Mood,
			Activity: tc.Activity,
			Energy:   tc.Energy,
			TopK:     contextShiftTopK,
		})
		comparisons = append(comparisons, s.compare(tc, ranked, pool))
	}

	from, to := comparisons[0], comparisons[1]
	return &ContextShiftReport{
		UserID:     profile.UserID,
		Comparison: comparisons,
		Insight: fmt.Sprintf("Candidate pool shifted from %s to %s. Avg energy shifted from %s to %s.",
			thousands(from.CandidatePoolSize), thousands(to.CandidatePoolSize),
			formatAverage(from.Top10AvgEnergy, from.CandidatePoolSize), formatAverage(to.Top10AvgEnergy, to.CandidatePoolSize)),
	}, nil
}

func (s *EvaluationService) compare(tc contextShiftCase, ranked []scoring.Ranked, pool int) ContextComparison {
	c := ContextComparison{
		Context:           fmt.Sprintf("%s + %s", tc.Activity, tc.Mood),
		CandidatePoolSize: pool,
		Top3:              []ShiftedTrack{},
	}

	var energy, valence, score float64
	var n int
	for _, r := range ranked {
		track, ok := s.recommender.catalog.Track(r.ID)
		if !ok {
			continue
		}
		n++
		energy += track.Features.Energy
		valence += track.Features.Valence
		score += r.Score
		if len(c.Top3) < 3 {
			c.Top3 = append(c.Top3, ShiftedTrack{Title: track.Title, Artist: track.ArtistName, Score: round(r.Score, 4)})
		}
	}

	if n > 0 {
		c.Top10AvgEnergy = round(energy/float64(n), 3)
		c.Top10AvgValence = round(valence/float64(n), 3)
		c.Top10AvgScore = round(score/float64(n), 4)
	}
	return c
}

func activityLabel(a models.Activity) string {
	if a == models.ActivityNone {
		return "None"
	}
	return string(a)
}

// thousands formats n with comma group separators
func thousands(n int) string {
	return englishPrinter.Sprintf("%d", n)
}

// formatAverage renders an average over pool candidates; an empty pool has no average and prints as 0
func formatAverage(v float64, pool int) string {
	if pool == 0 {
		return "0"
	}
	return formatFloat(v)
}

// formatFloat renders the shortest decimal form, keeping a trailing .0 for whole numbers
func formatFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%g", v)
}
