package services

import (
	"fmt"
	"time"

	"jukejam/internal/config"
	"jukejam/internal/metrics"
	"jukejam/internal/models"
	"jukejam/internal/repositories"
	"jukejam/internal/scoring"
	"jukejam/internal/search"
	"jukejam/internal/timecontext"
)

// RecommendRequest asks for tracks that fit a mood and an optional activity
type RecommendRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Mood     string `json:"mood" binding:"required"`
	Activity string `json:"activity,omitempty"`
	TopK     int    `json:"top_k,omitempty"`
}

// InferredContext describes the context auto-suggest chose for the user
type InferredContext struct {
	TimeOfDay         models.Timeslot `json:"time_of_day"`
	CurrentHour       int             `json:"current_hour"`
	SuggestedMood     models.Mood     `json:"suggested_mood"`
	SuggestedActivity *string         `json:"suggested_activity"`
	GenresUsed        []string        `json:"genres_used"`
	Confidence        float64         `json:"confidence"`
	BasedOnHistory    bool            `json:"based_on_history"`
	Reason            string          `json:"reason"`
}

// AutoSuggestion is the auto-suggest response
type AutoSuggestion struct {
	InferredContext InferredContext `json:"inferred_context"`
	Tracks          []SongResult    `json:"tracks"`
}

// contextQuery is one retrieve-and-rerank pass
type contextQuery struct {
	Profile  models.UserProfile
	Genres   []string
	Mood     models.Mood
	Activity models.Activity
	Energy   string
	TopK     int
}

// RecommendationService produces context-aware recommendations
type RecommendationService struct {
	index    *search.Index
	catalog  *repositories.Catalog
	profiles *repositories.ProfileStore
	contexts *repositories.TimeContextStore
	reranker *scoring.Reranker
	ranking  func() *config.RankingConfig
	now      func() time.Time
}

// NewRecommendationService creates a recommendation service over the loaded stores
func NewRecommendationService(index *search.Index, catalog *repositories.Catalog, profiles *repositories.ProfileStore, contexts *repositories.TimeContextStore) *RecommendationService {
	return &RecommendationService{
		index:    index,
		catalog:  catalog,
		profiles: profiles,
		contexts: contexts,
		reranker: scoring.NewReranker(catalog),
		ranking:  config.GetRankingConfig,
		now:      time.Now,
	}
}

// EnergyFilter derives the energy label used for retrieval. A given activity
// decides on its own, even if it maps to nothing; otherwise the mood decides.
func EnergyFilter(mood models.Mood, activity models.Activity) string {
	if activity != models.ActivityNone {
		switch activity {
		case models.ActivityWorkout:
			return models.EnergyEnergetic
		case models.ActivityStudy, models.ActivityRelax:
			return models.EnergyCalm
		case models.ActivityCommute:
			return models.EnergyMedium
		default:
			return ""
		}
	}
	switch mood {
	case models.MoodHype:
		return models.EnergyEnergetic
	case models.MoodHappy, models.MoodFocus:
		return models.EnergyMedium
	case models.MoodChill, models.MoodSad:
		return models.EnergyCalm
	default:
		return ""
	}
}

// Recommend ranks tracks for the request. Unknown users get a neutral profile.
func (s *RecommendationService) Recommend(req RecommendRequest) []SongResult {
	profile, _ := s.profiles.GetOrNeutral(req.UserID)
	mood := models.ParseMood(req.Mood)
	activity := models.ParseActivity(req.Activity)

	q := contextQuery{
		Profile:  profile,
		Genres:   profile.TopGenres,
		Mood:     mood,
		Activity: activity,
		Energy:   EnergyFilter(mood, activity),
		TopK:     s.ranking().ClampTopK(req.TopK),
	}
	ranked, _ := s.rank("recommend", q)
	return s.explained(ranked, q)
}

// AutoSuggest recommends for the current timeslot from the user's history,
// falling back to the slot defaults.
func (s *RecommendationService) AutoSuggest(userID string, topK int) (*AutoSuggestion, error) {
	profile, err := s.profiles.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("auto-suggest for %q: %w", userID, err)
	}

	now := s.now()
	slot := timecontext.HourToTimeslot(now.Hour())
	userCtx, _ := s.contexts.Get(userID)
	slotCtx, fromHistory := timecontext.Resolve(userCtx, slot)

	genres := slotCtx.TopGenres
	if len(genres) == 0 {
		genres = profile.TopGenres
	}
	if len(genres) == 0 {
		genres = nil
	}

	q := contextQuery{
		Profile:  profile,
		Genres:   genres,
		Mood:     slotCtx.TypicalMood,
		Activity: slotCtx.TypicalActivity,
		Energy:   EnergyFilter(slotCtx.TypicalMood, slotCtx.TypicalActivity),
		TopK:     s.ranking().ClampTopK(topK),
	}
	ranked, _ := s.rank("auto_suggest", q)

	inferred := InferredContext{
		TimeOfDay:      slot,
		CurrentHour:    now.Hour(),
		SuggestedMood:  q.Mood,
		GenresUsed:     genres,
		BasedOnHistory: fromHistory,
		Reason:         suggestionReason(q.Mood, q.Activity, slot, fromHistory),
	}
	if q.Activity != models.ActivityNone {
		a := string(q.Activity)
		inferred.SuggestedActivity = &a
	}
	if fromHistory {
		inferred.Confidence = slotCtx.Confidence
	}

	return &AutoSuggestion{InferredContext: inferred, Tracks: s.explained(ranked, q)}, nil
}

// rank retrieves candidates for q and reranks them. It also returns the candidate pool size.
func (s *RecommendationService) rank(operation string, q contextQuery) ([]scoring.Ranked, int) {
	start := time.Now()
	candidates := search.Retrieve(s.index, search.Filters{
		Genres: q.Genres,
		Mood:   string(q.Mood),
		Energy: q.Energy,
	})
	ranked := s.reranker.Rank(candidates.Sorted(), q.Profile, q.Mood, q.Activity, q.TopK)
	metrics.RecordRanking(operation, len(candidates), time.Since(start))
	return ranked, len(candidates)
}

// explained converts reranked candidates into results with breakdowns and explanations
func (s *RecommendationService) explained(ranked []scoring.Ranked, q contextQuery) []SongResult {
	results := make([]SongResult, 0, len(ranked))
	for _, r := range ranked {
		track, ok := s.catalog.Track(r.ID)
		if !ok {
			continue
		}
		result := newSongResult(track, r.Score)
		breakdown := r.Breakdown
		result.ScoreBreakdown = &breakdown
		result.Explanation = scoring.Explain(track, r.Breakdown, q.Profile.TopGenres, q.Mood, q.Activity)
		results = append(results, result)
	}
	return results
}

func suggestionReason(mood models.Mood, activity models.Activity, slot models.Timeslot, fromHistory bool) string {
	if !fromHistory {
		return fmt.Sprintf("Suggested for %s listening", slot)
	}
	reason := fmt.Sprintf("You usually listen to %s music", mood)
	if activity != models.ActivityNone {
		reason += " while " + gerund(activity)
	}
	return reason + fmt.Sprintf(" in the %s", slot)
}

func gerund(a models.Activity) string {
	switch a {
	case models.ActivityWorkout:
		return "working out"
	case models.ActivityStudy:
		return "studying"
	case models.ActivityRelax:
		return "relaxing"
	case models.ActivityCommute:
		return "commuting"
	default:
		return string(a) + "ing"
	}
}
