package scoring

import (
	"fmt"
	"strings"

	"jukejam/internal/models"
)

// ExplanationSeparator joins explanation clauses
const ExplanationSeparator = " · "

const fallbackExplanation = "Matches your current context filters"

// Explain renders a short reason for a recommendation from its breakdown and context.
// Clauses are appended in a fixed order so the output is reproducible.
func Explain(track *models.Track, b Breakdown, topGenres []string, mood models.Mood, activity models.Activity) string {
	var reasons []string

	switch sim := b.AudioSimilarity; {
	case sim >= 0.95:
		reasons = append(reasons, fmt.Sprintf("Audio profile is an excellent match (%.0f%%)", sim*100))
	case sim >= 0.85:
		reasons = append(reasons, fmt.Sprintf("Strong audio-feature similarity (%.0f%%)", sim*100))
	}

	energy := track.Features.Energy
	switch {
	case activity == models.ActivityWorkout && energy >= 0.7:
		reasons = append(reasons, fmt.Sprintf("High energy (%.2f) fits %s", energy, activity))
	case (activity == models.ActivityStudy || activity == models.ActivityRelax) && energy <= 0.35:
		reasons = append(reasons, fmt.Sprintf("Low energy (%.2f) suits %s", energy, activity))
	}

	if track.MoodBucket == mood {
		reasons = append(reasons, fmt.Sprintf("Mood %q matches your selection", string(track.MoodBucket)))
	} else if b.MoodMatch > 0 {
		reasons = append(reasons, fmt.Sprintf("Mood %q is adjacent to %q", string(track.MoodBucket), string(mood)))
	}

	if GenreMatch(track.Genre, topGenres) > 0 {
		reasons = append(reasons, fmt.Sprintf("Genre %q is in your top genres", track.Genre))
	}

	if track.Popularity >= 75 {
		reasons = append(reasons, fmt.Sprintf("Popular track (popularity %d/100)", track.Popularity))
	}

	if len(reasons) == 0 {
		return fallbackExplanation
	}
	return strings.Join(reasons, ExplanationSeparator)
}
