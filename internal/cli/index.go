package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jukejam/internal/loader"
	"jukejam/internal/search"
)

var (
	indexCatalogPath string
	indexOutPath     string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the search index bundle",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the search index bundle from the catalog CSV",
	Long: `Build the five-field inverted index (genre, mood, energy, title, artist)
from the song catalog and write it as the JSON bundle the server loads.

Examples:
  jukejamctl index build
  jukejamctl index build --catalog data/processed/SONG_CATALOG.csv --out indexes/indexes.json`,
	Args: cobra.NoArgs,
	RunE: runIndexBuild,
}

func init() {
	indexBuildCmd.Flags().StringVarP(&indexCatalogPath, "catalog", "c", "", "catalog CSV (default CATALOG_PATH)")
	indexBuildCmd.Flags().StringVarP(&indexOutPath, "out", "o", "", "output bundle (default INDEXES_PATH)")

	indexCmd.AddCommand(indexBuildCmd)
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	catalogPath := orDefault(indexCatalogPath, cfg.CatalogPath)
	outPath := orDefault(indexOutPath, cfg.IndexesPath)

	tracks, err := loader.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	idx := search.BuildIndex(tracks)
	if err := writeFile(outPath, func(f *os.File) error {
		return loader.WriteIndexes(f, idx)
	}); err != nil {
		return fmt.Errorf("write index bundle: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Indexed %d tracks into %s\n", len(tracks), outPath)
	for _, field := range search.Fields {
		fmt.Fprintf(out, "  %-7s %d tokens\n", field, len(idx.Tokens(field)))
	}
	return nil
}
