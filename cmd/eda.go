package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/zipeda/internal/analysis"
	"github.com/KaramelBytes/zipeda/internal/chart"
	cfgpkg "github.com/KaramelBytes/zipeda/internal/config"
	"github.com/KaramelBytes/zipeda/internal/dataset"
	"github.com/KaramelBytes/zipeda/internal/utils"
	"github.com/spf13/cobra"
)

var (
	edaTarget     string
	edaOutDir     string
	edaNoCharts   bool
	edaRunID      string
	edaDelimiter  string
	edaDecimal    string
	edaThousands  string
	edaNA         []string
	edaSheetName  string
	edaSheetIndex int
	edaHeadRows   int
	edaDupRows    int
	edaBins       int
	edaMaxRows    int
)

var edaCmd = &cobra.Command{
	Use:   "eda <file-or-glob>...",
	Short: "Print an exploratory report for CSV/TSV/XLSX files and render its charts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := utils.ExpandInputs(args)
		if err != nil {
			return err
		}
		c := cfg
		if c == nil {
			if c, err = cfgpkg.Load(cfgFile); err != nil {
				return err
			}
		}
		loadOpt, err := loadOptions(cmd, c)
		if err != nil {
			return err
		}
		opt := reportOptions(cmd, c)

		out := cmd.OutOrStdout()
		stderr := cmd.ErrOrStderr()
		outDir := c.OutputDir
		if edaOutDir != "" {
			outDir = edaOutDir
		}
		total := len(files)
		for i, path := range files {
			if total > 1 {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			frame, err := dataset.LoadFile(path, loadOpt)
			if err != nil {
				return err
			}
			if edaTarget != "" && !frame.Has(edaTarget) {
				fmt.Fprintf(stderr, "⚠ Warning: target column %q not found in %s; target steps skipped\n", edaTarget, frame.Name)
			}

			display := analysis.NewConsole(out, nil)
			var r *chart.Renderer
			if !edaNoCharts {
				r = chart.New(outDir, c.ChartWidth, c.ChartHeight)
				r.MaxPairVars = c.MaxPairVars
				r.Logger = logger
				if edaRunID != "" {
					r.RunID = edaRunID
				}
				if total > 1 {
					r.RunID = fmt.Sprintf("%s-%02d", r.RunID, i+1)
				}
				r.OnWrite = func(p string) { fmt.Fprintf(out, "✓ Wrote chart %s\n", p) }
				display.Charts = r
			}
			if err := analysis.Perform(frame, edaTarget, display, opt); err != nil {
				return fmt.Errorf("%s: %w", frame.Name, err)
			}
			if r != nil {
				fmt.Fprintf(out, "✓ Charts for %s written to %s\n", frame.Name, r.RunDir())
			}
		}
		return nil
	},
}

// loadOptions merges config and flags into dataset loading options.
func loadOptions(cmd *cobra.Command, c *cfgpkg.Global) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	opt.Logger = logger
	if len(c.NAValues) > 0 {
		opt.NAValues = c.NAValues
	}
	opt.Delimiter = c.DelimiterRune()
	opt.MaxRows = c.MaxRows
	if cmd.Flags().Changed("na") {
		opt.NAValues = edaNA
	}
	if cmd.Flags().Changed("max-rows") {
		opt.MaxRows = edaMaxRows
	}
	if edaDelimiter != "" {
		switch edaDelimiter {
		case ",", "comma":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";", "semicolon":
			opt.Delimiter = ';'
		default:
			return opt, fmt.Errorf("unsupported --delimiter: %s", edaDelimiter)
		}
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(edaDecimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", edaDecimal)
	}
	switch strings.ToLower(strings.TrimSpace(edaThousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", edaThousands)
	}
	opt.SheetName = edaSheetName
	if edaSheetIndex > 0 {
		opt.SheetIndex = edaSheetIndex
	}
	return opt, nil
}

// reportOptions merges config and flags into report sizing.
func reportOptions(cmd *cobra.Command, c *cfgpkg.Global) analysis.Options {
	opt := analysis.DefaultOptions()
	opt.Logger = logger
	opt.HeadRows = c.HeadRows
	opt.DuplicateRows = c.DuplicateRows
	opt.GridCols = c.GridCols
	opt.HistogramBins = c.HistogramBins
	opt.CurvePoints = c.CurvePoints
	f := cmd.Flags()
	if f.Changed("head-rows") && edaHeadRows > 0 {
		opt.HeadRows = edaHeadRows
	}
	if f.Changed("dup-rows") && edaDupRows > 0 {
		opt.DuplicateRows = edaDupRows
	}
	if f.Changed("bins") && edaBins > 0 {
		opt.HistogramBins = edaBins
	}
	return opt
}

func init() {
	rootCmd.AddCommand(edaCmd)
	edaCmd.Flags().StringVarP(&edaTarget, "target", "t", "", "target column for class-wise boxplots, target distribution and pairplot hue")
	edaCmd.Flags().StringVarP(&edaOutDir, "out", "o", "", "directory for chart images (default from config output_dir)")
	edaCmd.Flags().BoolVar(&edaNoCharts, "no-charts", false, "describe charts in the report instead of rendering PNG files")
	edaCmd.Flags().StringVar(&edaRunID, "run-id", "", "name of the chart run directory (default: random uuid)")
	edaCmd.Flags().StringVar(&edaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (sniffed if omitted)")
	edaCmd.Flags().StringVar(&edaDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	edaCmd.Flags().StringVar(&edaThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	edaCmd.Flags().StringSliceVar(&edaNA, "na", nil, "tokens read as missing values (repeatable; replaces config na_values)")
	edaCmd.Flags().StringVar(&edaSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	edaCmd.Flags().IntVar(&edaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	edaCmd.Flags().IntVar(&edaHeadRows, "head-rows", 5, "rows shown in the overview")
	edaCmd.Flags().IntVar(&edaDupRows, "dup-rows", 10, "rows shown from duplicate groups")
	edaCmd.Flags().IntVar(&edaBins, "bins", 20, "histogram bins")
	edaCmd.Flags().IntVar(&edaMaxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
}
