package loader

import (
	"io"
	"os"
	"strconv"
	"strings"

	"jukejam/internal/models"
)

var profileColumns = []string{"user_id", "top_genres"}

// LoadProfiles reads the bootstrap user profile CSV at path
func LoadProfiles(path string) ([]models.UserProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return ReadProfiles(f, path)
}

// ReadProfiles parses profile rows. top_genres is a comma separated list; the
// mood, listening-time and platform columns hold {'key': value} literals.
func ReadProfiles(r io.Reader, source string) ([]models.UserProfile, error) {
	var profiles []models.UserProfile

	err := readRows(r, source, profileColumns, func(rw row) error {
		userID := rw.get("user_id")
		if userID == "" {
			return nil
		}
		energy, err := rw.float("avg_energy_preference", models.DefaultFeatureValue)
		if err != nil {
			return err
		}
		skipRate, err := rw.float("skip_rate", 0)
		if err != nil {
			return err
		}

		profiles = append(profiles, models.UserProfile{
			UserID:               userID,
			TopGenres:            splitList(rw.get("top_genres")),
			PreferredMoods:       ParseWeights(rw.get("preferred_moods")),
			AvgEnergyPreference:  energy,
			ListeningTimeProfile: ParseWeights(rw.get("listening_time_profile")),
			SkipRate:             skipRate,
			PlatformMix:          ParseWeights(rw.get("platform_mix")),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseWeights parses a flat {'key': number} literal. Anything that does not
// parse yields an empty map rather than an error.
func ParseWeights(s string) map[string]float64 {
	out := map[string]float64{}

	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return out
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return out
	}

	for _, pair := range strings.Split(body, ",") {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return map[string]float64{}
		}
		key = strings.Trim(strings.TrimSpace(key), `'"`)
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || key == "" {
			return map[string]float64{}
		}
		out[key] = f
	}
	return out
}
