package loader

import (
	"io"
	"os"

	"jukejam/internal/models"
)

// LoadEvents reads the listening event CSV at path
func LoadEvents(path string) ([]models.PlayEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return ReadEvents(f, path)
}

// ReadEvents parses listening events. Some exports name the track column
// spotify_id; it is accepted as an alias of track_id.
func ReadEvents(r io.Reader, source string) ([]models.PlayEvent, error) {
	var events []models.PlayEvent

	err := readRows(r, source, []string{"user_id", "event_type", "time_of_day", "track_id|spotify_id"}, func(rw row) error {
		trackColumn := "track_id"
		if !rw.has(trackColumn) {
			trackColumn = "spotify_id"
		}

		skipped, err := rw.bool("skipped")
		if err != nil {
			return err
		}
		events = append(events, models.PlayEvent{
			UserID:    rw.get("user_id"),
			SessionID: rw.get("session_id"),
			TrackID:   models.TrackID(rw.get(trackColumn)),
			EventType: rw.get("event_type"),
			Timeslot:  rw.get("time_of_day"),
			Skipped:   skipped,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// LoadSessions reads the session metadata CSV at path
func LoadSessions(path string) ([]models.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return ReadSessions(f, path)
}

// ReadSessions parses session rows; blank or NaN moods and activities are left empty
func ReadSessions(r io.Reader, source string) ([]models.Session, error) {
	var sessions []models.Session

	err := readRows(r, source, []string{"user_id", "session_id"}, func(rw row) error {
		sessions = append(sessions, models.Session{
			UserID:       rw.get("user_id"),
			SessionID:    rw.get("session_id"),
			ReportedMood: models.ParseMood(missingAsEmpty(rw.get("self_reported_mood"))),
			Activity:     models.ParseActivity(missingAsEmpty(rw.get("activity_type"))),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func missingAsEmpty(s string) string {
	switch s {
	case "nan", "NaN", "None", "null":
		return ""
	}
	return s
}
