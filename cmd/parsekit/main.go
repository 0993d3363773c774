package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kittclouds/parsekit/internal/config"
	"github.com/kittclouds/parsekit/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    = config.Default()
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "parsekit",
	Short: "Rule-driven English constituent parser and template matcher",
	Long: `parsekit tags text, rewrites the tagged tokens into a phrase-structure
tree, and matches trees against pattern/template libraries to produce new phrases.

Template libraries are YAML files; they can be imported into a SQLite store and
indexed for similarity suggestions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Logging.Development)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: built-in settings)")

	parseCmd.Flags().Bool("pretty", false, "Print an indented tree")
	tokensCmd.Flags().Bool("pretty", false, "Print an indented tree")

	for _, c := range []*cobra.Command{matchCmd, suggestCmd} {
		c.Flags().StringSlice("templates", nil, "Template library files (default: config templates.paths)")
	}
	matchCmd.Flags().String("db", "", "Also load templates from this SQLite store")
	suggestCmd.Flags().String("db", "", "Rank the templates of this SQLite store instead of library files")
	suggestCmd.Flags().IntP("limit", "n", 3, "Number of suggestions")

	templatesCmd.PersistentFlags().String("db", "", "SQLite store (default: config templates.db)")
	templatesCmd.AddCommand(templatesImportCmd)
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesExportCmd)

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(templatesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	fsys, p, err := openFS(path)
	if err != nil {
		return nil, err
	}
	return config.Load(fsys, p)
}

// openFS maps a host path onto the OS filesystem.
func openFS(path string) (hackpadfs.FS, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fsys := osfs.NewFS()
	p, err := fsys.FromOSPath(abs)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return fsys, p, nil
}
