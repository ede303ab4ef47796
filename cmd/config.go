package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/zipeda/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set zipeda configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "chart_width: %.2f\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %.2f\n", cfg.ChartHeight)
		fmt.Fprintf(out, "head_rows: %d\n", cfg.HeadRows)
		fmt.Fprintf(out, "duplicate_rows: %d\n", cfg.DuplicateRows)
		fmt.Fprintf(out, "grid_cols: %d\n", cfg.GridCols)
		fmt.Fprintf(out, "histogram_bins: %d\n", cfg.HistogramBins)
		fmt.Fprintf(out, "curve_points: %d\n", cfg.CurvePoints)
		fmt.Fprintf(out, "max_pair_vars: %d\n", cfg.MaxPairVars)
		fmt.Fprintf(out, "na_values: %q\n", cfg.NAValues)
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %s\n", cfg.Delimiter)
		}
		if cfg.MaxRows > 0 {
			fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		switch key {
		case "output_dir":
			next.OutputDir = val
		case "chart_width", "chart_height":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			if key == "chart_width" {
				next.ChartWidth = f
			} else {
				next.ChartHeight = f
			}
		case "head_rows", "duplicate_rows", "grid_cols", "histogram_bins", "curve_points", "max_pair_vars", "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %w", key, err)
			}
			*intField(&next, key) = i
		case "na_values":
			var toks []string
			for _, t := range strings.Split(val, ",") {
				toks = append(toks, strings.TrimSpace(t))
			}
			next.NAValues = toks
		case "delimiter":
			switch strings.ToLower(val) {
			case ",", "comma":
				next.Delimiter = "comma"
			case ";", "semicolon":
				next.Delimiter = "semicolon"
			case "\t", "tab":
				next.Delimiter = "tab"
			case "", "auto":
				next.Delimiter = ""
			default:
				return fmt.Errorf("invalid delimiter: %s (use comma, semicolon, tab or auto)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func intField(c *cfgpkg.Global, key string) *int {
	switch key {
	case "head_rows":
		return &c.HeadRows
	case "duplicate_rows":
		return &c.DuplicateRows
	case "grid_cols":
		return &c.GridCols
	case "histogram_bins":
		return &c.HistogramBins
	case "curve_points":
		return &c.CurvePoints
	case "max_pair_vars":
		return &c.MaxPairVars
	default:
		return &c.MaxRows
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
