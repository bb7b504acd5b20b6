package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"jukejam/internal/config"
	"jukejam/internal/metrics"
)

const (
	spotifyPlatform    = "spotify"
	spotifyBreakerName = "spotify-api"

	// Spotify caps /audio-features at 100 ids per request
	maxAudioFeatureIDs = 100

	defaultSpotifyRateLimit = 100
	defaultSpotifyTimeout   = 10 * time.Second
)

// SpotifyAPI is the subset of the Spotify accounts service and Web API the service uses
type SpotifyAPI interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Me(ctx context.Context, token *oauth2.Token) (*SpotifyUser, error)
	Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
	TopArtists(ctx context.Context, token *oauth2.Token, limit int) ([]SpotifyArtist, error)
	TopTracks(ctx context.Context, token *oauth2.Token, limit int) ([]SpotifyTrack, error)
	AudioFeatures(ctx context.Context, token *oauth2.Token, ids []string) ([]SpotifyAudioFeatures, error)
	RecentlyPlayed(ctx context.Context, token *oauth2.Token, limit int) ([]SpotifyPlayHistory, error)
}

// SpotifyClient talks to the Spotify accounts service and Web API on behalf of a user.
// Calls are rate limited and guarded by a circuit breaker.
type SpotifyClient struct {
	oauth   *oauth2.Config
	client  *resty.Client
	baseURL string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*resty.Response]
}

var _ SpotifyAPI = (*SpotifyClient)(nil)

// NewSpotifyClient creates a client from the Spotify platform configuration.
// Breaker settings:
// - 3 requests allowed while half-open
// - counts reset every minute while closed
// - 30 seconds open before probing again
// - trips at a 60% failure rate over at least 5 requests
func NewSpotifyClient(cfg *config.PlatformConfig) *SpotifyClient {
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = defaultSpotifyRateLimit
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSpotifyTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	client.JSONUnmarshal = json.Unmarshal

	metrics.CircuitBreakerState.WithLabelValues(spotifyBreakerName).Set(0)

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        spotifyBreakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &SpotifyClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rateLimit)), 10),
		breaker: breaker,
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// AuthCodeURL returns the authorize URL the user is redirected to on login
func (c *SpotifyClient) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for tokens
func (c *SpotifyClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		metrics.RecordSpotifyRequest("token", "error")
		return nil, &PlatformError{
			Platform:  spotifyPlatform,
			Operation: "token_exchange",
			Message:   "token exchange failed",
			Err:       err,
		}
	}
	metrics.RecordSpotifyRequest("token", "200")
	return token, nil
}

// Refresh returns token unchanged while it is valid, else a refreshed token
func (c *SpotifyClient) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	fresh, err := c.oauth.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, &PlatformError{
			Platform:  spotifyPlatform,
			Operation: "token_refresh",
			Message:   "failed to refresh access token",
			Err:       fmt.Errorf("%w: %v", ErrTokenExpired, err),
		}
	}
	return fresh, nil
}

// Me fetches the profile of the token owner
func (c *SpotifyClient) Me(ctx context.Context, token *oauth2.Token) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := c.get(ctx, token, "me", "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// TopArtists fetches the user's medium-term top artists
func (c *SpotifyClient) TopArtists(ctx context.Context, token *oauth2.Token, limit int) ([]SpotifyArtist, error) {
	var page spotifyPage[SpotifyArtist]
	params := map[string]string{"limit": strconv.Itoa(limit), "time_range": "medium_term"}
	if err := c.get(ctx, token, "top_artists", "/me/top/artists", params, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// TopTracks fetches the user's medium-term top tracks
func (c *SpotifyClient) TopTracks(ctx context.Context, token *oauth2.Token, limit int) ([]SpotifyTrack, error) {
	var page spotifyPage[SpotifyTrack]
	params := map[string]string{"limit": strconv.Itoa(limit), "time_range": "medium_term"}
	if err := c.get(ctx, token, "top_tracks", "/me/top/tracks", params, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// AudioFeatures fetches audio features for up to 100 tracks.
// Tracks Spotify has no features for are dropped.
func (c *SpotifyClient) AudioFeatures(ctx context.Context, token *oauth2.Token, ids []string) ([]SpotifyAudioFeatures, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > maxAudioFeatureIDs {
		ids = ids[:maxAudioFeatureIDs]
	}

	var resp spotifyAudioFeaturesResponse
	params := map[string]string{"ids": strings.Join(ids, ",")}
	if err := c.get(ctx, token, "audio_features", "/audio-features", params, &resp); err != nil {
		return nil, err
	}

	features := make([]SpotifyAudioFeatures, 0, len(resp.AudioFeatures))
	for _, f := range resp.AudioFeatures {
		if f != nil {
			features = append(features, *f)
		}
	}
	return features, nil
}

// RecentlyPlayed fetches the user's most recent plays
func (c *SpotifyClient) RecentlyPlayed(ctx context.Context, token *oauth2.Token, limit int) ([]SpotifyPlayHistory, error) {
	var page spotifyPage[SpotifyPlayHistory]
	params := map[string]string{"limit": strconv.Itoa(limit)}
	if err := c.get(ctx, token, "recently_played", "/me/player/recently-played", params, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// get performs an authenticated GET. Server errors count against the breaker;
// client errors such as 401 do not.
func (c *SpotifyClient) get(ctx context.Context, token *oauth2.Token, endpoint, path string, params map[string]string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &PlatformError{Platform: spotifyPlatform, Operation: endpoint, Message: "rate limit wait aborted", Err: err}
	}

	resp, err := c.breaker.Execute(func() (*resty.Response, error) {
		resp, err := c.client.R().
			SetContext(ctx).
			SetAuthToken(token.AccessToken).
			SetQueryParams(params).
			SetResult(result).
			Get(c.baseURL + path)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, fmt.Errorf("spotify returned status %d", resp.StatusCode())
		}
		return resp, nil
	})

	if err != nil {
		status := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "rejected"
		}
		metrics.RecordSpotifyRequest(endpoint, status)

		pe := &PlatformError{Platform: spotifyPlatform, Operation: endpoint, Message: "request failed", Err: err}
		if resp != nil {
			pe.StatusCode = resp.StatusCode()
		}
		return pe
	}

	metrics.RecordSpotifyRequest(endpoint, strconv.Itoa(resp.StatusCode()))

	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return &PlatformError{
			Platform:   spotifyPlatform,
			Operation:  endpoint,
			Message:    "access token rejected",
			StatusCode: resp.StatusCode(),
			Err:        ErrTokenExpired,
		}
	default:
		return &PlatformError{
			Platform:   spotifyPlatform,
			Operation:  endpoint,
			Message:    "API error: " + resp.String(),
			StatusCode: resp.StatusCode(),
		}
	}
}

// Spotify API response structures
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type SpotifyArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
}

type SpotifyAudioFeatures struct {
	ID           string  `json:"id"`
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Acousticness float64 `json:"acousticness"`
	Tempo        float64 `json:"tempo"`
}

type SpotifyPlayHistory struct {
	Track    SpotifyTrack `json:"track"`
	PlayedAt string       `json:"played_at"`
}

type spotifyPage[T any] struct {
	Items []T `json:"items"`
}

type spotifyAudioFeaturesResponse struct {
	AudioFeatures []*SpotifyAudioFeatures `json:"audio_features"`
}
