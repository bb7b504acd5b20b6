package models

import "strings"

// Mood is one of the catalog mood buckets
type Mood string

const (
	MoodHappy Mood = "happy"
	MoodSad   Mood = "sad"
	MoodChill Mood = "chill"
	MoodHype  Mood = "hype"
	MoodFocus Mood = "focus"
)

// Moods lists every known mood bucket
var Moods = []Mood{MoodHappy, MoodSad, MoodChill, MoodHype, MoodFocus}

// ParseMood normalizes free text into a Mood. Unknown values are kept as-is
// so callers can fall back to neutral behavior instead of failing.
func ParseMood(s string) Mood {
	return Mood(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether m is one of the fixed buckets
func (m Mood) Known() bool {
	switch m {
	case MoodHappy, MoodSad, MoodChill, MoodHype, MoodFocus:
		return true
	}
	return false
}

// Activity is a listening activity that overrides the energy target
type Activity string

const (
	ActivityNone    Activity = ""
	ActivityWorkout Activity = "workout"
	ActivityStudy   Activity = "study"
	ActivityRelax   Activity = "relax"
	ActivityCommute Activity = "commute"
)

// ParseActivity normalizes free text into an Activity
func ParseActivity(s string) Activity {
	return Activity(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether a is one of the fixed activities
func (a Activity) Known() bool {
	switch a {
	case ActivityWorkout, ActivityStudy, ActivityRelax, ActivityCommute:
		return true
	}
	return false
}

// Energy labels used by the energy index
const (
	EnergyCalm      = "calm"
	EnergyMedium    = "medium"
	EnergyEnergetic = "energetic"
)

// Timeslot is a time-of-day bucket
type Timeslot string

const (
	Morning   Timeslot = "morning"
	Afternoon Timeslot = "afternoon"
	Evening   Timeslot = "evening"
	Night     Timeslot = "night"
)

// Timeslots lists the buckets in day order
var Timeslots = []Timeslot{Morning, Afternoon, Evening, Night}

// ParseTimeslot returns the slot named by s, or false if s is not a slot
func ParseTimeslot(s string) (Timeslot, bool) {
	slot := Timeslot(strings.ToLower(strings.TrimSpace(s)))
	switch slot {
	case Morning, Afternoon, Evening, Night:
		return slot, true
	}
	return "", false
}
