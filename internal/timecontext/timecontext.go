// Package timecontext aggregates listening history into per-user, per-timeslot context
// and maps clock time onto timeslots for live suggestions.
package timecontext

import (
	"sort"

	"jukejam/internal/models"
)

// fallbackMood is used for a slot with history but no reported moods
const fallbackMood = models.MoodChill

// HourToTimeslot maps an hour of day onto its timeslot.
// [6,12) morning, [12,17) afternoon, [17,21) evening, anything else night.
func HourToTimeslot(hour int) models.Timeslot {
	switch {
	case hour >= 6 && hour < 12:
		return models.Morning
	case hour >= 12 && hour < 17:
		return models.Afternoon
	case hour >= 17 && hour < 21:
		return models.Evening
	default:
		return models.Night
	}
}

// Default returns the static context used when a user has no history in slot
func Default(slot models.Timeslot) models.TimeContext {
	switch slot {
	case models.Morning:
		return models.TimeContext{TypicalMood: models.MoodFocus, TypicalActivity: models.ActivityCommute, TopGenres: []string{}}
	case models.Afternoon:
		return models.TimeContext{TypicalMood: models.MoodHappy, TypicalActivity: models.ActivityStudy, TopGenres: []string{}}
	case models.Evening:
		return models.TimeContext{TypicalMood: models.MoodChill, TypicalActivity: models.ActivityRelax, TopGenres: []string{}}
	case models.Night:
		return models.TimeContext{TypicalMood: models.MoodSad, TypicalActivity: models.ActivityRelax, TopGenres: []string{}}
	default:
		return models.TimeContext{TypicalMood: models.MoodChill, TypicalActivity: models.ActivityRelax, TopGenres: []string{}}
	}
}

// Resolve returns the user's context for slot, or the slot default.
// The boolean reports whether the context came from history.
func Resolve(ctx models.UserTimeContext, slot models.Timeslot) (models.TimeContext, bool) {
	if c, ok := ctx[slot]; ok {
		return c, true
	}
	return Default(slot), false
}

// GenreLookup resolves the catalog genre of a track
type GenreLookup func(id models.TrackID) (string, bool)

type sessionKey struct {
	user    string
	session string
}

type slotTally struct {
	events     int
	moods      map[models.Mood]int
	activities map[models.Activity]int
	genres     map[string]int
}

func newSlotTally() *slotTally {
	return &slotTally{
		moods:      make(map[models.Mood]int),
		activities: make(map[models.Activity]int),
		genres:     make(map[string]int),
	}
}

// Build aggregates played, unskipped events into time contexts keyed by lowercased user id.
// Session metadata is joined on (user, session); events without a session still count.
// Events whose timeslot is not one of the four buckets are ignored.
func Build(events []models.PlayEvent, sessions []models.Session, genreOf GenreLookup) map[string]models.UserTimeContext {
	sessionIndex := make(map[sessionKey]models.Session, len(sessions))
	for _, s := range sessions {
		sessionIndex[sessionKey{user: s.UserID, session: s.SessionID}] = s
	}

	tallies := make(map[string]map[models.Timeslot]*slotTally)
	totals := make(map[string]int)

	for _, ev := range events {
		if !ev.Played() {
			continue
		}
		slot, ok := models.ParseTimeslot(ev.Timeslot)
		if !ok {
			continue
		}

		user := models.UserKey(ev.UserID)
		slots, ok := tallies[user]
		if !ok {
			slots = make(map[models.Timeslot]*slotTally)
			tallies[user] = slots
		}
		tally, ok := slots[slot]
		if !ok {
			tally = newSlotTally()
			slots[slot] = tally
		}

		tally.events++
		totals[user]++

		if s, ok := sessionIndex[sessionKey{user: ev.UserID, session: ev.SessionID}]; ok {
			if s.ReportedMood != "" {
				tally.moods[s.ReportedMood]++
			}
			if s.Activity != models.ActivityNone {
				tally.activities[s.Activity]++
			}
		}

		if genreOf != nil {
			if genre, ok := genreOf(ev.TrackID); ok && genre != "" {
				tally.genres[genre]++
			}
		}
	}

	profiles := make(map[string]models.UserTimeContext, len(tallies))
	for user, slots := range tallies {
		ctx := make(models.UserTimeContext, len(slots))
		for slot, tally := range slots {
			mood := fallbackMood
			if m, ok := mode(tally.moods); ok {
				mood = m
			}
			activity, _ := mode(tally.activities)

			ctx[slot] = models.TimeContext{
				TypicalMood:     mood,
				TypicalActivity: activity,
				TopGenres:       topN(tally.genres, models.MaxTopGenres),
				EventCount:      tally.events,
				Confidence:      float64(tally.events) / float64(totals[user]),
			}
		}
		profiles[user] = ctx
	}
	return profiles
}

// mode returns the most frequent key, breaking ties by the smallest key
func mode[K ~string](counts map[K]int) (K, bool) {
	var best K
	bestCount := 0
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best) {
			best, bestCount = k, n
		}
	}
	return best, bestCount > 0
}

// topN returns up to n keys by descending count, ties broken alphabetically
func topN(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
