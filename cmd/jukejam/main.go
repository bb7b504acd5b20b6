package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"jukejam/internal/cache"
	"jukejam/internal/config"
	"jukejam/internal/handlers"
	"jukejam/internal/loader"
	"jukejam/internal/metrics"
	"jukejam/internal/models"
	"jukejam/internal/repositories"
	"jukejam/internal/search"
	"jukejam/internal/services"
)

func main() {
	// Load .env file for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	if err := run(cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// stores is everything loaded at startup
type stores struct {
	index    *search.Index
	catalog  *repositories.Catalog
	profiles *repositories.ProfileStore
	contexts *repositories.TimeContextStore
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	data, err := loadStores(ctx, cfg)
	if err != nil {
		return err
	}
	metrics.UpdateStoreGauges(data.catalog.Len(), data.profiles.Len(), data.contexts.Len())
	slog.Info("Loaded startup data",
		"songs", data.catalog.Len(),
		"users", data.profiles.Len(),
		"time_context_users", data.contexts.Len())

	appCache, err := cache.New(cfg.ValkeyURL, cfg.CacheMaxItems)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer appCache.Close()

	config.StartRankingConfigWatcher(ctx, 5*time.Second)

	// A nil interface keeps the Spotify routes in their disabled state
	var spotify services.SpotifyAPI
	if platform := cfg.Spotify(); platform.Enabled {
		spotify = services.NewSpotifyClient(platform)
	} else {
		slog.Info("Spotify integration disabled; SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are not set")
	}

	searchService := services.NewSearchService(data.index, data.catalog, appCache, cfg.SearchCacheTTL)
	recommendationService := services.NewRecommendationService(data.index, data.catalog, data.profiles, data.contexts)
	evaluationService := services.NewEvaluationService(recommendationService)
	profileService := services.NewProfileService(
		data.profiles,
		data.contexts,
		services.NewTokenStore(appCache),
		spotify,
		services.NewStateSigner(cfg.StateSecret),
	)

	router := handlers.NewRouter(handlers.Handlers{
		Search:     handlers.NewSearchHandler(searchService, data.index),
		Recommend:  handlers.NewRecommendHandler(recommendationService),
		Users:      handlers.NewUserHandler(data.profiles, profileService),
		Evaluation: handlers.NewEvaluationHandler(evaluationService),
		Spotify:    handlers.NewSpotifyHandler(profileService),
		Health:     handlers.NewHealthHandler(data.catalog, data.profiles, data.contexts, appCache),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", srv.Addr, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadStores reads the index bundle, catalog and profiles, all required, plus
// the optional precomputed time contexts
func loadStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	index, err := loader.LoadIndexes(cfg.IndexesPath)
	if err != nil {
		return nil, err
	}

	tracks, err := loadTracks(ctx, cfg)
	if err != nil {
		return nil, err
	}
	catalog, err := repositories.NewCatalog(tracks)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	profiles, err := loader.LoadProfiles(cfg.ProfilesPath)
	if err != nil {
		return nil, err
	}

	contexts, err := loader.LoadTimeContexts(cfg.TimeContextPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("No precomputed time contexts; auto-suggest uses defaults", "path", cfg.TimeContextPath)
		contexts = nil
	case err != nil:
		return nil, err
	}

	return &stores{
		index:    index,
		catalog:  catalog,
		profiles: repositories.NewProfileStore(profiles),
		contexts: repositories.NewTimeContextStore(contexts),
	}, nil
}

func loadTracks(ctx context.Context, cfg *config.Config) ([]models.Track, error) {
	if cfg.CatalogSource != config.CatalogSourceMongo {
		return loader.LoadCatalog(cfg.CatalogPath)
	}

	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := models.NewDatabase(dbCtx, cfg.MongodbURL, cfg.MongodbDatabase)
	if err != nil {
		return nil, err
	}
	defer db.Close(context.Background())

	tracks, err := repositories.NewMongoTrackRepository(db).LoadAll(dbCtx)
	if err != nil {
		return nil, fmt.Errorf("load catalog from mongodb: %w", err)
	}
	if len(tracks) == 0 {
		return nil, errors.New("mongodb catalog is empty; run jukejamctl catalog import")
	}
	return tracks, nil
}
