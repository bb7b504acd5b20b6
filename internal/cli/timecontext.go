package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jukejam/internal/loader"
	"jukejam/internal/repositories"
	"jukejam/internal/timecontext"
)

var (
	tcEventsPath   string
	tcSessionsPath string
	tcCatalogPath  string
	tcOutPath      string
)

var timecontextCmd = &cobra.Command{
	Use:   "timecontext",
	Short: "Manage time-of-day listening contexts",
}

var timecontextBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Aggregate listening history into per-user time contexts",
	Long: `Aggregate played, unskipped listening events into a typical mood, activity
and top genres for each user and time of day. Session metadata supplies the
self-reported mood and activity; the catalog supplies genres.

Examples:
  jukejamctl timecontext build
  jukejamctl timecontext build --events events.csv --sessions sessions.csv --out indexes/time_context_profiles.json`,
	Args: cobra.NoArgs,
	RunE: runTimecontextBuild,
}

func init() {
	timecontextBuildCmd.Flags().StringVarP(&tcEventsPath, "events", "e", "", "listening events CSV (default data/processed/LISTENING_EVENTS.csv)")
	timecontextBuildCmd.Flags().StringVarP(&tcSessionsPath, "sessions", "s", "", "session metadata CSV, optional (default data/processed/SESSIONS.csv)")
	timecontextBuildCmd.Flags().StringVarP(&tcCatalogPath, "catalog", "c", "", "catalog CSV (default CATALOG_PATH)")
	timecontextBuildCmd.Flags().StringVarP(&tcOutPath, "out", "o", "", "output JSON (default TIME_CONTEXT_PATH)")

	timecontextCmd.AddCommand(timecontextBuildCmd)
}

func runTimecontextBuild(cmd *cobra.Command, args []string) error {
	processed := filepath.Join(cfg.DataDir, "data", "processed")
	eventsPath := orDefault(tcEventsPath, filepath.Join(processed, "LISTENING_EVENTS.csv"))
	sessionsPath := orDefault(tcSessionsPath, filepath.Join(processed, "SESSIONS.csv"))
	catalogPath := orDefault(tcCatalogPath, cfg.CatalogPath)
	outPath := orDefault(tcOutPath, cfg.TimeContextPath)

	events, err := loader.LoadEvents(eventsPath)
	if err != nil {
		return err
	}

	sessions, err := loader.LoadSessions(sessionsPath)
	if err != nil {
		if tcSessionsPath != "" || !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		sessions = nil
	}

	tracks, err := loader.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}
	catalog, err := repositories.NewCatalog(tracks)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}

	contexts := timecontext.Build(events, sessions, catalog.Genre)
	if err := writeFile(outPath, func(f *os.File) error {
		return loader.WriteTimeContexts(f, contexts)
	}); err != nil {
		return fmt.Errorf("write time contexts: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Built time contexts for %d users from %d events into %s\n", len(contexts), len(events), outPath)
	return nil
}
