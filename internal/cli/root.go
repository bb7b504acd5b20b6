// Package cli provides the jukejamctl command-line interface for offline data preparation.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"jukejam/internal/config"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "jukejamctl",
	Short: "Prepare and inspect JukeJam catalog data",
	Long: `jukejamctl builds the artifacts the JukeJam server loads at startup.

It turns the song catalog CSV into the search index bundle, aggregates
listening history into time-of-day contexts, seeds the MongoDB catalog,
and runs ad-hoc searches against local files.

Paths default to the same locations the server reads (DATA_DIR, CATALOG_PATH,
INDEXES_PATH, TIME_CONTEXT_PATH).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		_ = godotenv.Load()

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(timecontextCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(searchCmd)
}

// orDefault returns flag when set, else def
func orDefault(flag, def string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	return def
}

// writeFile creates path and hands it to write, removing the file if write fails
func writeFile(path string, write func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
