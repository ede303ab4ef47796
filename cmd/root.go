package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/zipeda/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Set at build time with -ldflags "-X github.com/KaramelBytes/zipeda/cmd.version=..."
	version = "0.0.0"

	// Loaded configuration
	cfg *cfgpkg.Global
	// Diagnostic logger; user-facing status goes through fmt
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var rootCmd = &cobra.Command{
	Use:     "zipeda",
	Version: version,
	Short:   "zipeda: quick exploratory data analysis for tabular files",
	Long: `zipeda prints an exploratory report for CSV/TSV/XLSX datasets: overview, missing values,
duplicates, unique counts, descriptive statistics and target distribution, and renders
boxplots, histograms with fitted normal curves, a pairplot and a correlation heatmap as PNG files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.zipeda/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
}

func loadConfig() {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	logger.Debug("config loaded", "output_dir", cfg.OutputDir, "grid_cols", cfg.GridCols)
}
