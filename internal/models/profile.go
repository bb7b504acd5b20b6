package models

import "strings"

// MaxTopGenres caps the ordered genre lists kept on profiles and contexts
const MaxTopGenres = 5

// UserProfile is the aggregated listening profile of a user.
// Profiles are replaced wholesale on every rebuild.
type UserProfile struct {
	UserID               string             `json:"user_id"`
	TopGenres            []string           `json:"top_genres"`
	PreferredMoods       map[string]float64 `json:"preferred_moods"`
	AvgEnergyPreference  float64            `json:"avg_energy_preference"`
	ListeningTimeProfile map[string]float64 `json:"listening_time_profile"`
	SkipRate             float64            `json:"skip_rate"`
	PlatformMix          map[string]float64 `json:"platform_mix"`
}

// Key returns the lowercased store key for the profile
func (p UserProfile) Key() string {
	return UserKey(p.UserID)
}

// UserKey normalizes a user identifier for store lookups
func UserKey(userID string) string {
	return strings.ToLower(strings.TrimSpace(userID))
}

// NeutralProfile is used for recommendations when the user is unknown
func NeutralProfile(userID string) UserProfile {
	return UserProfile{
		UserID:              userID,
		TopGenres:           []string{},
		PreferredMoods:      map[string]float64{},
		AvgEnergyPreference: DefaultFeatureValue,
	}
}

// TimeContext is the aggregated listening context of one user in one timeslot
type TimeContext struct {
	TypicalMood     Mood     `json:"typical_mood"`
	TypicalActivity Activity `json:"typical_activity,omitempty"` // empty when none recorded
	TopGenres       []string `json:"top_genres"`
	EventCount      int      `json:"event_count"`
	Confidence      float64  `json:"confidence"`
}

// UserTimeContext maps each timeslot with history to its context
type UserTimeContext map[Timeslot]TimeContext

// PlayEvent is one historical listening event
type PlayEvent struct {
	UserID    string
	SessionID string
	TrackID   TrackID
	EventType string
	Timeslot  string
	Skipped   bool
}

// Played reports whether the event counts toward listening history
func (e PlayEvent) Played() bool {
	return e.EventType == "play" && !e.Skipped
}

// Session carries the self-reported context of a listening session
type Session struct {
	UserID       string
	SessionID    string
	ReportedMood Mood
	Activity     Activity
}
