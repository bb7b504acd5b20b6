package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"jukejam/internal/cache"
	"jukejam/internal/loader"
	"jukejam/internal/repositories"
	"jukejam/internal/search"
	"jukejam/internal/services"
)

var (
	searchArtist      string
	searchGenres      []string
	searchMood        string
	searchEnergy      string
	searchTopK        int
	searchCatalogPath string
	searchIndexPath   string
)

var searchCmd = &cobra.Command{
	Use:   "search [title]",
	Short: "Search the local catalog",
	Long: `Search the catalog with the same retrieval and TF-IDF ranking the server uses.
Text words must all match (AND); values of each filter are alternatives (OR).
The index bundle is built in memory when the bundle file does not exist.

Examples:
  jukejamctl search "love song"
  jukejamctl search --artist "the beats" --mood hype
  jukejamctl search love --genre pop --genre rock --energy energetic -n 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchArtist, "artist", "a", "", "artist words, all required")
	searchCmd.Flags().StringSliceVarP(&searchGenres, "genre", "g", nil, "genre filter, any of")
	searchCmd.Flags().StringVarP(&searchMood, "mood", "m", "", "mood filter")
	searchCmd.Flags().StringVarP(&searchEnergy, "energy", "e", "", "energy filter (calm, medium, energetic)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", 10, "max results")
	searchCmd.Flags().StringVarP(&searchCatalogPath, "catalog", "c", "", "catalog CSV (default CATALOG_PATH)")
	searchCmd.Flags().StringVarP(&searchIndexPath, "index", "i", "", "index bundle (default INDEXES_PATH)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	tracks, err := loader.LoadCatalog(orDefault(searchCatalogPath, cfg.CatalogPath))
	if err != nil {
		return err
	}
	catalog, err := repositories.NewCatalog(tracks)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}

	indexPath := orDefault(searchIndexPath, cfg.IndexesPath)
	idx, err := loader.LoadIndexes(indexPath)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Index bundle not found; building in memory", "path", indexPath)
		idx = search.BuildIndex(tracks)
	} else if err != nil {
		return err
	}

	req := services.SearchRequest{
		Artist: searchArtist,
		Genres: searchGenres,
		Mood:   searchMood,
		Energy: searchEnergy,
		TopK:   searchTopK,
	}
	if len(args) == 1 {
		req.Title = args[0]
	}

	svc := services.NewSearchService(idx, catalog, cache.NewMemoryCache(1), 0)
	results := svc.Search(cmd.Context(), req)

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d results:\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(out, "%d. %s - %s [%s]\n", i+1, r.Title, r.ArtistName, r.TrackID)
		fmt.Fprintf(out, "   score %.4f  %s / %s / %s\n", r.Score, r.Genre, r.MoodBucket, r.EnergyLabel)
		if verbose {
			fmt.Fprintf(out, "   album %s, popularity %d, tempo %s\n", r.AlbumName, r.Popularity, r.TempoLabel)
		}
	}
	return nil
}
