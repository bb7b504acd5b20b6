package config

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// RankingConfig holds the tunable knobs of the search and evaluation paths
type RankingConfig struct {
	// TF-IDF field weights
	TitleWeight  float64 `toml:"title_weight"`
	ArtistWeight float64 `toml:"artist_weight"`

	// Result limit when a request gives none, and the ceiling on what it may ask for
	DefaultTopK int `toml:"default_top_k"`
	MaxTopK     int `toml:"max_top_k"`

	// Cutoff used for precision@k in /evaluate
	EvaluationK int `toml:"evaluation_k"`
}

// DefaultRankingConfig returns hard-coded safe defaults
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		TitleWeight:  2.0,
		ArtistWeight: 1.0,
		DefaultTopK:  20,
		MaxTopK:      100,
		EvaluationK:  10,
	}
}

// ClampTopK applies the default to non-positive k and caps it at MaxTopK
func (c *RankingConfig) ClampTopK(k int) int {
	if k <= 0 {
		k = c.DefaultTopK
	}
	if c.MaxTopK > 0 && k > c.MaxTopK {
		k = c.MaxTopK
	}
	return k
}

var (
	rankingCfg     *RankingConfig
	rankingCfgOnce sync.Once
	rankingCfgMu   sync.RWMutex
)

// GetRankingConfig loads the ranking config from TOML if RANKING_CONFIG_PATH is set,
// else from the first well-known location that exists. Falls back to defaults.
func GetRankingConfig() *RankingConfig {
	rankingCfgOnce.Do(func() {
		cfg := DefaultRankingConfig()
		if path := os.Getenv("RANKING_CONFIG_PATH"); path != "" {
			if fileCfg, err := loadRankingConfigFromPath(path); err != nil {
				slog.Warn("Failed to read ranking config; using defaults", "path", path, "error", err)
			} else if fileCfg != nil {
				mergeRankingConfig(cfg, fileCfg)
			}
		} else {
			for _, p := range candidateRankingConfigPaths() {
				if fileCfg, err := loadRankingConfigFromPath(p); err == nil && fileCfg != nil {
					mergeRankingConfig(cfg, fileCfg)
					break
				}
			}
		}
		rankingCfgMu.Lock()
		rankingCfg = cfg
		rankingCfgMu.Unlock()
	})
	rankingCfgMu.RLock()
	cfg := rankingCfg
	rankingCfgMu.RUnlock()
	return cfg
}

func loadRankingConfigFromPath(path string) (*RankingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var cfg RankingConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeRankingConfig copies every positive override onto base
func mergeRankingConfig(base, override *RankingConfig) {
	if override == nil || base == nil {
		return
	}
	if override.TitleWeight > 0 {
		base.TitleWeight = override.TitleWeight
	}
	if override.ArtistWeight > 0 {
		base.ArtistWeight = override.ArtistWeight
	}
	if override.DefaultTopK > 0 {
		base.DefaultTopK = override.DefaultTopK
	}
	if override.MaxTopK > 0 {
		base.MaxTopK = override.MaxTopK
	}
	if override.EvaluationK > 0 {
		base.EvaluationK = override.EvaluationK
	}
}

// candidateRankingConfigPaths returns common locations to auto-discover ranking config
func candidateRankingConfigPaths() []string {
	paths := []string{
		"ranking.toml",
		filepath.Join("config", "ranking.toml"),
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "jukejam", "ranking.toml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", "jukejam", "ranking.toml"))
	}
	paths = append(paths, filepath.Join(string(os.PathSeparator), "etc", "jukejam", "ranking.toml"))
	return paths
}

// StartRankingConfigWatcher polls the ranking config file for changes and reloads it.
// It is a no-op when no config file exists.
func StartRankingConfigWatcher(ctx context.Context, interval time.Duration) {
	var paths []string
	if explicit := os.Getenv("RANKING_CONFIG_PATH"); explicit != "" {
		paths = append(paths, explicit)
	} else {
		paths = candidateRankingConfigPaths()
	}

	var watchPath string
	var lastModTime time.Time
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			watchPath = p
			lastModTime = fi.ModTime()
			break
		}
	}
	if watchPath == "" {
		slog.Info("ranking config watcher: no config file found; using defaults")
		return
	}

	slog.Info("ranking config watcher: watching file", "path", watchPath)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("ranking config watcher: stopped")
				return
			case <-ticker.C:
				fi, err := os.Stat(watchPath)
				if err != nil || fi.IsDir() || !fi.ModTime().After(lastModTime) {
					continue
				}
				fileCfg, err := loadRankingConfigFromPath(watchPath)
				if err != nil || fileCfg == nil {
					slog.Warn("Failed to reload ranking config", "path", watchPath, "error", err)
					continue
				}
				newCfg := DefaultRankingConfig()
				mergeRankingConfig(newCfg, fileCfg)
				setRankingConfig(newCfg)
				lastModTime = fi.ModTime()
				slog.Info("ranking config reloaded", "path", watchPath, "mtime", lastModTime)
			}
		}
	}()
}

// setRankingConfig swaps the active config, marking the lazy load as done
func setRankingConfig(cfg *RankingConfig) {
	rankingCfgOnce.Do(func() {})
	rankingCfgMu.Lock()
	rankingCfg = cfg
	rankingCfgMu.Unlock()
}
