package loader

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"

	"jukejam/internal/models"
)

// LoadTimeContexts reads precomputed time contexts from path
func LoadTimeContexts(path string) (map[string]models.UserTimeContext, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return ReadTimeContexts(f, path)
}

// ReadTimeContexts decodes user -> timeslot -> context JSON. Unknown slot names are dropped.
func ReadTimeContexts(r io.Reader, source string) (map[string]models.UserTimeContext, error) {
	var raw map[string]map[string]models.TimeContext
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("failed to decode time contexts: %w", err)}
	}

	out := make(map[string]models.UserTimeContext, len(raw))
	for user, slots := range raw {
		ctx := make(models.UserTimeContext, len(slots))
		for name, c := range slots {
			slot, ok := models.ParseTimeslot(name)
			if !ok {
				slog.Warn("Skipping unknown timeslot", "source", source, "user", user, "timeslot", name)
				continue
			}
			if c.TopGenres == nil {
				c.TopGenres = []string{}
			}
			c.TypicalMood = models.ParseMood(string(c.TypicalMood))
			c.TypicalActivity = models.ParseActivity(string(c.TypicalActivity))
			ctx[slot] = c
		}
		out[models.UserKey(user)] = ctx
	}
	return out, nil
}

// WriteTimeContexts encodes contexts in the format ReadTimeContexts accepts
func WriteTimeContexts(w io.Writer, contexts map[string]models.UserTimeContext) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(contexts); err != nil {
		return fmt.Errorf("failed to encode time contexts: %w", err)
	}
	return nil
}
