package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Options controls how files become frames.
type Options struct {
	// Delimiter for CSV. If 0, sniffed from the header line (',' ';' '\t').
	Delimiter rune
	// NAValues are cell tokens treated as missing.
	NAValues []string
	// Numeric parsing locale. When either separator is set, numeric-looking cells are
	// normalized (decimal comma, thousands grouping, trailing '%') before type detection.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// XLSX sheet selection. SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int

	Logger *slog.Logger
}

// DefaultOptions returns the loader defaults.
func DefaultOptions() Options {
	return Options{
		NAValues:   []string{"", "NA", "NaN", "N/A", "null", "<nil>"},
		SheetIndex: 1,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Loader builds frames from one family of files.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (*Frame, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates a file format no loader handles.
var ErrUnsupported = errors.New("unsupported dataset format")

// LoadFile selects a loader by filename and returns the frame named after the file.
func LoadFile(path string, opt Options) (*Frame, error) {
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		f, err := l.Load(path, opt)
		if err != nil {
			return nil, err
		}
		if f.Name == "" {
			f.Name = filepath.Base(path)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// FromRecords builds a frame from a header and data rows. Short rows are padded with missing
// cells; column types are detected from the cell text.
func FromRecords(header []string, rows [][]string, opt Options) (*Frame, error) {
	if len(header) == 0 {
		return nil, errors.New("dataset: no columns")
	}
	ncol := len(header)
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
		opt.logger().Warn("row limit reached", "loaded", opt.MaxRows, "total", len(rows))
		rows = rows[:opt.MaxRows]
	}
	normalize := opt.DecimalSeparator != 0 || opt.ThousandsSeparator != 0
	na := opt.NAValues
	if na == nil {
		na = DefaultOptions().NAValues
	}
	records := make([][]string, 0, len(rows)+1)
	hdr := make([]string, ncol)
	for i, h := range header {
		hdr[i] = strings.TrimSpace(h)
		if hdr[i] == "" {
			hdr[i] = "Unnamed: " + strconv.Itoa(i)
		}
	}
	records = append(records, hdr)
	for _, r := range rows {
		rec := make([]string, ncol)
		copy(rec, r)
		for j, v := range rec {
			v = strings.TrimSpace(v)
			if normalize {
				if x, ok := parseNumeric(v, opt); ok {
					v = strconv.FormatFloat(x, 'f', -1, 64)
				}
			}
			rec[j] = v
		}
		records = append(records, rec)
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(na),
	)
	if df.Err != nil {
		return New(df)
	}
	return New(floatMissing(df))
}

// floatMissing retypes integer columns holding missing cells, and columns with no values at
// all, as float columns. Missing cells are NaN, which only a float column can hold.
func floatMissing(df dataframe.DataFrame) dataframe.DataFrame {
	for _, name := range df.Names() {
		s := df.Col(name)
		var missing int
		for _, na := range s.IsNaN() {
			if na {
				missing++
			}
		}
		empty := s.Len() > 0 && missing == s.Len()
		if (s.Type() == series.Int && missing > 0) || (s.Type() == series.String && empty) {
			df = df.Mutate(series.New(s.Records(), series.Float, name))
		}
	}
	return df
}
