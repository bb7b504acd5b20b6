package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"jukejam/internal/metrics"
	"jukejam/internal/models"
	"jukejam/internal/repositories"
	"jukejam/internal/timecontext"
)

// Spotify request sizes used when building a profile
const (
	topArtistsLimit     = 20
	topTracksLimit      = 50
	recentlyPlayedLimit = 50
	statsPreviewSize    = 5
)

// OnboardingRequest carries the preferences a new user picks on sign-up
type OnboardingRequest struct {
	UserID           string   `json:"user_id" binding:"required"`
	FavoriteGenres   []string `json:"favorite_genres"`
	FavoriteArtists  []string `json:"favorite_artists"`
	VibeStudy        string   `json:"vibe_study"`
	VibeWorkout      string   `json:"vibe_workout"`
	VibeGettingReady string   `json:"vibe_getting_ready"`
	VibeCleaning     string   `json:"vibe_cleaning"`
}

// SpotifyStats summarizes the Spotify data a profile was built from
type SpotifyStats struct {
	TopArtists      []string `json:"top_artists"`
	TopTracks       []string `json:"top_tracks"`
	AvgEnergy       float64  `json:"avg_energy"`
	AvgValence      float64  `json:"avg_valence"`
	AvgDanceability float64  `json:"avg_danceability"`
	GenreCount      int      `json:"genre_count"`
}

// SpotifySync is the outcome of rebuilding a profile from Spotify.
// TimeContext is empty when the user had no usable recent plays.
type SpotifySync struct {
	Profile     models.UserProfile
	TimeContext models.UserTimeContext
	Stats       SpotifyStats
}

// ProfileService creates and rebuilds user profiles
type ProfileService struct {
	profiles *repositories.ProfileStore
	contexts *repositories.TimeContextStore
	tokens   *TokenStore
	spotify  SpotifyAPI
	state    *StateSigner

	// userLocks serializes profile and time-context replacement per user key
	userLocks sync.Map
}

// NewProfileService creates a profile service. spotify may be nil when the
// integration is not configured.
func NewProfileService(profiles *repositories.ProfileStore, contexts *repositories.TimeContextStore, tokens *TokenStore, spotify SpotifyAPI, state *StateSigner) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		contexts: contexts,
		tokens:   tokens,
		spotify:  spotify,
		state:    state,
	}
}

// replaceUser swaps in profile and, when non-empty, timeCtx as one step for that user
func (s *ProfileService) replaceUser(profile models.UserProfile, timeCtx models.UserTimeContext) {
	mu, _ := s.userLocks.LoadOrStore(profile.Key(), &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	s.profiles.Put(profile)
	if len(timeCtx) > 0 {
		s.contexts.Put(profile.UserID, timeCtx)
	}
	lock.Unlock()

	metrics.UsersLoaded.Set(float64(s.profiles.Len()))
	metrics.TimeContextUsers.Set(float64(s.contexts.Len()))
}

// defaultListeningTime and defaultPlatformMix fill profiles built without history
func defaultListeningTime() map[string]float64 {
	return map[string]float64{"morning": 0.33, "afternoon": 0.34, "night": 0.33}
}

func defaultPlatformMix() map[string]float64 {
	return map[string]float64{"mobile": 1.0}
}

// Onboard stores a fresh profile from onboarding answers, replacing any existing one
func (s *ProfileService) Onboard(req OnboardingRequest) models.UserProfile {
	genres := req.FavoriteGenres
	if len(genres) > models.MaxTopGenres {
		genres = genres[:models.MaxTopGenres]
	}

	profile := models.UserProfile{
		UserID:    req.UserID,
		TopGenres: append([]string{}, genres...),
		PreferredMoods: map[string]float64{
			string(models.MoodHappy): 0.25,
			string(models.MoodChill): 0.25,
			string(models.MoodHype):  0.25,
			string(models.MoodSad):   0.25,
		},
		AvgEnergyPreference:  models.DefaultFeatureValue,
		ListeningTimeProfile: defaultListeningTime(),
		SkipRate:             0,
		PlatformMix:          defaultPlatformMix(),
	}
	s.replaceUser(profile, nil)

	slog.Info("User onboarded", "user_id", req.UserID, "genres", len(profile.TopGenres))
	return profile
}

// LoginURL returns the Spotify authorize URL with a freshly signed state
func (s *ProfileService) LoginURL() (string, error) {
	if s.spotify == nil {
		return "", ErrSpotifyDisabled
	}
	state, err := s.state.Issue()
	if err != nil {
		return "", err
	}
	return s.spotify.AuthCodeURL(state), nil
}

// Connect completes the OAuth flow and stores the user's token
func (s *ProfileService) Connect(ctx context.Context, code, state string) (*SpotifyUser, error) {
	if s.spotify == nil {
		return nil, ErrSpotifyDisabled
	}
	if err := s.state.Verify(state); err != nil {
		return nil, err
	}

	token, err := s.spotify.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	user, err := s.spotify.Me(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Save(ctx, user.ID, StoredToken{Token: token, DisplayName: user.DisplayName}); err != nil {
		return nil, err
	}
	slog.Info("Spotify account connected", "spotify_user_id", user.ID)
	return user, nil
}

// SyncSpotify rebuilds the user's profile and time context from their Spotify data.
// Both are replaced wholesale; the time context only when recent plays produced one.
func (s *ProfileService) SyncSpotify(ctx context.Context, spotifyUserID string) (*SpotifySync, error) {
	if s.spotify == nil {
		return nil, ErrSpotifyDisabled
	}

	stored, err := s.tokens.Load(ctx, spotifyUserID)
	if err != nil {
		return nil, err
	}
	token, err := s.spotify.Refresh(ctx, stored.Token)
	if err != nil {
		return nil, err
	}
	if token.AccessToken != stored.Token.AccessToken {
		stored.Token = token
		if err := s.tokens.Save(ctx, spotifyUserID, stored); err != nil {
			slog.Warn("Failed to persist refreshed spotify token", "spotify_user_id", spotifyUserID, "error", err)
		}
	}

	artists, err := s.spotify.TopArtists(ctx, token, topArtistsLimit)
	if err != nil {
		return nil, err
	}
	tracks, err := s.spotify.TopTracks(ctx, token, topTracksLimit)
	if err != nil {
		return nil, err
	}

	topGenres, genreCount := genresByCount(artists)

	var trackIDs []string
	for _, t := range tracks {
		if t.ID != "" {
			trackIDs = append(trackIDs, t.ID)
		}
	}
	features, err := s.spotify.AudioFeatures(ctx, token, trackIDs)
	if err != nil {
		return nil, err
	}
	avg := averageFeatures(features)

	recent, err := s.spotify.RecentlyPlayed(ctx, token, recentlyPlayedLimit)
	if err != nil {
		return nil, err
	}
	slotTracks, recentIDs := groupBySlot(recent)
	recentFeatures, err := s.spotify.AudioFeatures(ctx, token, recentIDs)
	if err != nil {
		return nil, err
	}
	timeCtx := inferTimeContext(slotTracks, recentFeatures, len(recentIDs), topGenres)

	profile := models.UserProfile{
		UserID:               spotifyUserID,
		TopGenres:            topGenres,
		PreferredMoods:       PreferredMoodsForValence(avg.Valence),
		AvgEnergyPreference:  round(avg.Energy, 3),
		ListeningTimeProfile: defaultListeningTime(),
		SkipRate:             0,
		PlatformMix:          defaultPlatformMix(),
	}
	s.replaceUser(profile, timeCtx)

	slog.Info("Spotify profile synced",
		"spotify_user_id", spotifyUserID,
		"genres", len(topGenres),
		"audio_features", len(features),
		"timeslots", len(timeCtx))

	return &SpotifySync{
		Profile:     profile,
		TimeContext: timeCtx,
		Stats: SpotifyStats{
			TopArtists:      artistNames(artists),
			TopTracks:       trackLabels(tracks),
			AvgEnergy:       round(avg.Energy, 3),
			AvgValence:      round(avg.Valence, 3),
			AvgDanceability: round(avg.Danceability, 3),
			GenreCount:      genreCount,
		},
	}, nil
}

// genresByCount ranks artist genres by frequency, ties in first-seen order.
// It returns the top five and the number of distinct genres.
func genresByCount(artists []SpotifyArtist) ([]string, int) {
	counts := make(map[string]int)
	var order []string
	for _, a := range artists {
		for _, g := range a.Genres {
			if counts[g] == 0 {
				order = append(order, g)
			}
			counts[g]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	top := order
	if len(top) > models.MaxTopGenres {
		top = top[:models.MaxTopGenres]
	}
	return append([]string{}, top...), len(counts)
}

type featureAverages struct {
	Energy       float64
	Valence      float64
	Danceability float64
}

// averageFeatures is neutral when there are no features
func averageFeatures(features []SpotifyAudioFeatures) featureAverages {
	if len(features) == 0 {
		return featureAverages{
			Energy:       models.DefaultFeatureValue,
			Valence:      models.DefaultFeatureValue,
			Danceability: models.DefaultFeatureValue,
		}
	}
	var sum featureAverages
	for _, f := range features {
		sum.Energy += f.Energy
		sum.Valence += f.Valence
		sum.Danceability += f.Danceability
	}
	n := float64(len(features))
	return featureAverages{Energy: sum.Energy / n, Valence: sum.Valence / n, Danceability: sum.Danceability / n}
}

// PreferredMoodsForValence maps an average valence onto mood weights
func PreferredMoodsForValence(valence float64) map[string]float64 {
	switch {
	case valence > 0.65:
		return map[string]float64{"happy": 0.4, "hype": 0.3, "chill": 0.2, "sad": 0.1}
	case valence > 0.45:
		return map[string]float64{"chill": 0.35, "happy": 0.3, "hype": 0.2, "sad": 0.15}
	default:
		return map[string]float64{"sad": 0.35, "chill": 0.3, "happy": 0.2, "hype": 0.15}
	}
}

// InferSlotMood guesses the mood of a timeslot from its average valence and energy
func InferSlotMood(valence, energy float64) models.Mood {
	switch {
	case valence > 0.65 && energy > 0.65:
		return models.MoodHype
	case valence > 0.55:
		return models.MoodHappy
	case energy < 0.35:
		return models.MoodSad
	case valence < 0.40:
		return models.MoodFocus
	default:
		return models.MoodChill
	}
}

// InferSlotActivity guesses the activity of a timeslot from its average energy
func InferSlotActivity(energy float64) models.Activity {
	switch {
	case energy > 0.7:
		return models.ActivityWorkout
	case energy < 0.3:
		return models.ActivityRelax
	case energy < 0.45:
		return models.ActivityStudy
	default:
		return models.ActivityCommute
	}
}

// groupBySlot buckets recent plays by the hour they were played at.
// It also returns the distinct track ids in first-seen order.
func groupBySlot(recent []SpotifyPlayHistory) (map[models.Timeslot][]string, []string) {
	slots := make(map[models.Timeslot][]string)
	seen := make(map[string]bool)
	var ids []string
	for _, item := range recent {
		if item.PlayedAt == "" || item.Track.ID == "" {
			continue
		}
		playedAt, err := time.Parse(time.RFC3339, item.PlayedAt)
		if err != nil {
			continue
		}
		slot := timecontext.HourToTimeslot(playedAt.Hour())
		slots[slot] = append(slots[slot], item.Track.ID)
		if !seen[item.Track.ID] {
			seen[item.Track.ID] = true
			ids = append(ids, item.Track.ID)
		}
	}
	return slots, ids
}

// inferTimeContext builds a context for every slot with at least one featured play.
// Confidence is the slot's featured plays over the distinct recent tracks.
func inferTimeContext(slots map[models.Timeslot][]string, features []SpotifyAudioFeatures, distinct int, topGenres []string) models.UserTimeContext {
	byID := make(map[string]SpotifyAudioFeatures, len(features))
	for _, f := range features {
		byID[f.ID] = f
	}

	ctx := make(models.UserTimeContext)
	for slot, ids := range slots {
		var feats []SpotifyAudioFeatures
		for _, id := range ids {
			if f, ok := byID[id]; ok {
				feats = append(feats, f)
			}
		}
		if len(feats) == 0 {
			continue
		}

		var valence, energy float64
		for _, f := range feats {
			valence += f.Valence
			energy += f.Energy
		}
		valence /= float64(len(feats))
		energy /= float64(len(feats))

		ctx[slot] = models.TimeContext{
			TypicalMood:     InferSlotMood(valence, energy),
			TypicalActivity: InferSlotActivity(energy),
			TopGenres:       append([]string{}, topGenres...),
			EventCount:      len(feats),
			Confidence:      round(float64(len(feats))/float64(max(distinct, 1)), 3),
		}
	}
	return ctx
}

func artistNames(artists []SpotifyArtist) []string {
	names := make([]string, 0, statsPreviewSize)
	for _, a := range artists {
		if len(names) == statsPreviewSize {
			break
		}
		names = append(names, a.Name)
	}
	return names
}

func trackLabels(tracks []SpotifyTrack) []string {
	labels := make([]string, 0, statsPreviewSize)
	for _, t := range tracks {
		if len(labels) == statsPreviewSize {
			break
		}
		artist := ""
		if len(t.Artists) > 0 {
			artist = t.Artists[0].Name
		}
		labels = append(labels, fmt.Sprintf("%s - %s", t.Name, artist))
	}
	return labels
}
