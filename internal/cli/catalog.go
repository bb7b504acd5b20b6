package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"jukejam/internal/loader"
	"jukejam/internal/models"
	"jukejam/internal/repositories"
)

var (
	catalogImportPath  string
	catalogImportBatch int
)

// openTrackRepository connects to the configured MongoDB catalog
var openTrackRepository = func(ctx context.Context) (repositories.TrackRepository, func(), error) {
	if cfg.MongodbURL == "" {
		return nil, nil, fmt.Errorf("MONGODB_URL is not set")
	}
	db, err := models.NewDatabase(ctx, cfg.MongodbURL, cfg.MongodbDatabase)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(context.Background()); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}
	if err := db.CreateIndexes(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("create indexes: %w", err)
	}
	return repositories.NewMongoTrackRepository(db), closeDB, nil
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the MongoDB track catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Upsert the catalog CSV into MongoDB",
	Long: `Upsert every track of the catalog CSV into the MongoDB tracks collection,
keyed by track id. Run this before starting the server with CATALOG_SOURCE=mongo.

Examples:
  jukejamctl catalog import
  jukejamctl catalog import --catalog SONG_CATALOG.csv --batch 1000`,
	Args: cobra.NoArgs,
	RunE: runCatalogImport,
}

func init() {
	catalogImportCmd.Flags().StringVarP(&catalogImportPath, "catalog", "c", "", "catalog CSV (default CATALOG_PATH)")
	catalogImportCmd.Flags().IntVarP(&catalogImportBatch, "batch", "b", 500, "tracks per bulk write")

	catalogCmd.AddCommand(catalogImportCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	tracks, err := loader.LoadCatalog(orDefault(catalogImportPath, cfg.CatalogPath))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	repo, closeRepo, err := openTrackRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	if err := importTracks(ctx, repo, tracks, catalogImportBatch); err != nil {
		return err
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count tracks: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tracks; catalog now holds %d\n", len(tracks), count)
	return nil
}

// importTracks writes tracks in batches of at most batch
func importTracks(ctx context.Context, repo repositories.TrackRepository, tracks []models.Track, batch int) error {
	if batch <= 0 {
		batch = len(tracks)
	}
	for start := 0; start < len(tracks); start += batch {
		end := min(start+batch, len(tracks))
		if err := repo.SaveMany(ctx, tracks[start:end]); err != nil {
			return fmt.Errorf("save tracks %d-%d: %w", start, end, err)
		}
		slog.Debug("Imported batch", "from", start, "to", end)
	}
	return nil
}
