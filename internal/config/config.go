package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Catalog sources selectable with CATALOG_SOURCE
const (
	CatalogSourceCSV   = "csv"
	CatalogSourceMongo = "mongo"
)

// PlatformConfig holds the OAuth2 credentials and limits of an external music platform
type PlatformConfig struct {
	Name         string        `json:"name"`
	Enabled      bool          `json:"enabled"`
	ClientID     string        `json:"client_id,omitempty"`
	ClientSecret string        `json:"-"`
	AuthURL      string        `json:"auth_url,omitempty"`
	TokenURL     string        `json:"token_url,omitempty"`
	BaseURL      string        `json:"base_url,omitempty"`
	RedirectURI  string        `json:"redirect_uri,omitempty"`
	Scopes       []string      `json:"scopes,omitempty"`
	RateLimit    int           `json:"rate_limit,omitempty"` // requests per minute
	Timeout      time.Duration `json:"timeout,omitempty"`
}

// Config holds all configuration for the application
type Config struct {
	// Application settings
	Port     string `envconfig:"PORT" default:"8000"`
	GinMode  string `envconfig:"GIN_MODE" default:"release"`
	BaseURL  string `envconfig:"BASE_URL" default:"http://127.0.0.1:8000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Startup data
	DataDir         string `envconfig:"DATA_DIR" default:"."`
	IndexesPath     string `envconfig:"INDEXES_PATH"`
	TimeContextPath string `envconfig:"TIME_CONTEXT_PATH"`
	CatalogPath     string `envconfig:"CATALOG_PATH"`
	ProfilesPath    string `envconfig:"PROFILES_PATH"`
	CatalogSource   string `envconfig:"CATALOG_SOURCE" default:"csv"`

	// Storage
	MongodbURL      string        `envconfig:"MONGODB_URL"`
	MongodbDatabase string        `envconfig:"MONGODB_DATABASE" default:"jukejam"`
	ValkeyURL       string        `envconfig:"VALKEY_URL"`
	CacheMaxItems   int           `envconfig:"CACHE_MAX_ITEMS" default:"10000"`
	SearchCacheTTL  time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"10m"`

	// Spotify
	SpotifyClientID     string `envconfig:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `envconfig:"SPOTIFY_CLIENT_SECRET"`
	SpotifyRedirectURI  string `envconfig:"SPOTIFY_REDIRECT_URI" default:"http://127.0.0.1:8000/callback"`
	SpotifyRateLimit    int    `envconfig:"SPOTIFY_RATE_LIMIT" default:"100"`
	StateSecret         string `envconfig:"STATE_SECRET"`
}

// SpotifyScopes are requested on login
var SpotifyScopes = []string{
	"user-top-read",
	"user-read-recently-played",
	"user-read-private",
	"user-library-read",
}

// Load reads configuration from environment variables and fills derived paths
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	cfg.CatalogSource = strings.ToLower(strings.TrimSpace(cfg.CatalogSource))
	switch cfg.CatalogSource {
	case CatalogSourceCSV:
	case CatalogSourceMongo:
		if cfg.MongodbURL == "" {
			return nil, fmt.Errorf("MONGODB_URL is required when CATALOG_SOURCE=%s", CatalogSourceMongo)
		}
	default:
		return nil, fmt.Errorf("unsupported CATALOG_SOURCE %q", cfg.CatalogSource)
	}

	cfg.applyDefaultPaths()
	return &cfg, nil
}

// applyDefaultPaths resolves unset data paths under DataDir
func (c *Config) applyDefaultPaths() {
	if c.IndexesPath == "" {
		c.IndexesPath = filepath.Join(c.DataDir, "indexes", "indexes.json")
	}
	if c.TimeContextPath == "" {
		c.TimeContextPath = filepath.Join(c.DataDir, "indexes", "time_context_profiles.json")
	}
	if c.CatalogPath == "" {
		c.CatalogPath = filepath.Join(c.DataDir, "data", "processed", "SONG_CATALOG.csv")
	}
	if c.ProfilesPath == "" {
		c.ProfilesPath = filepath.Join(c.DataDir, "data", "processed", "USER_PROFILE.csv")
	}
}

// Spotify returns the Spotify platform configuration. Enabled is false
// when no client credentials are configured.
func (c *Config) Spotify() *PlatformConfig {
	return &PlatformConfig{
		Name:         "spotify",
		Enabled:      c.SpotifyClientID != "" && c.SpotifyClientSecret != "",
		ClientID:     c.SpotifyClientID,
		ClientSecret: c.SpotifyClientSecret,
		AuthURL:      "https://accounts.spotify.com/authorize",
		TokenURL:     "https://accounts.spotify.com/api/token",
		BaseURL:      "https://api.spotify.com/v1",
		RedirectURI:  c.SpotifyRedirectURI,
		Scopes:       SpotifyScopes,
		RateLimit:    c.SpotifyRateLimit,
		Timeout:      10 * time.Second,
	}
}
