package scoring

import "jukejam/internal/models"

// moodProfile holds the non-energy targets for a mood; tempo is in BPM
type moodProfile struct {
	Valence      float64
	Danceability float64
	Acousticness float64
	Tempo        float64
}

var neutralMoodProfile = moodProfile{Valence: 0.5, Danceability: 0.5, Acousticness: 0.5, Tempo: 110}

func profileForMood(m models.Mood) moodProfile {
	switch m {
	case models.MoodHappy:
		return moodProfile{Valence: 0.80, Danceability: 0.70, Acousticness: 0.30, Tempo: 120}
	case models.MoodSad:
		return moodProfile{Valence: 0.20, Danceability: 0.30, Acousticness: 0.60, Tempo: 85}
	case models.MoodChill:
		return moodProfile{Valence: 0.45, Danceability: 0.40, Acousticness: 0.55, Tempo: 95}
	case models.MoodHype:
		return moodProfile{Valence: 0.75, Danceability: 0.85, Acousticness: 0.15, Tempo: 140}
	case models.MoodFocus:
		return moodProfile{Valence: 0.40, Danceability: 0.35, Acousticness: 0.50, Tempo: 100}
	default:
		return neutralMoodProfile
	}
}

// ActivityEnergy returns the fixed energy target of an activity.
// The boolean is false when the activity does not override energy.
func ActivityEnergy(a models.Activity) (float64, bool) {
	switch a {
	case models.ActivityWorkout:
		return 0.85, true
	case models.ActivityStudy:
		return 0.25, true
	case models.ActivityRelax:
		return 0.20, true
	case models.ActivityCommute:
		return 0.55, true
	default:
		return 0, false
	}
}

// TargetVector builds the listening target for a user in a mood and activity.
// Energy comes from the activity when it has one, otherwise from the profile.
func TargetVector(profile models.UserProfile, mood models.Mood, activity models.Activity) FeatureVector {
	energy := profile.AvgEnergyPreference
	if e, ok := ActivityEnergy(activity); ok {
		energy = e
	}

	mp := profileForMood(mood)
	return VectorOf(models.AudioFeatures{
		Energy:       energy,
		Valence:      mp.Valence,
		Danceability: mp.Danceability,
		Acousticness: mp.Acousticness,
		Tempo:        mp.Tempo,
	})
}
