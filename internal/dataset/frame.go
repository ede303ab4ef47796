package dataset

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind tags a column with the semantic type the EDA steps branch on.
type Kind int

const (
	// Other covers columns that are neither numeric nor text (booleans).
	Other Kind = iota
	Numeric
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "other"
	}
}

// Column is one entry of the frame schema.
type Column struct {
	Name  string
	Kind  Kind
	DType string // float64|int64|object|bool
}

// Frame is an immutable typed table backed by a gota DataFrame.
// Cell text, missingness and numeric coercions are computed once at construction.
type Frame struct {
	Name string

	df   dataframe.DataFrame
	cols []Column
	data []columnData
}

type columnData struct {
	cells []string
	na    []bool
	nums  []float64 // NaN where missing or not coercible
}

// New wraps a gota DataFrame. A DataFrame carrying a load error is rejected.
func New(df dataframe.DataFrame) (*Frame, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("dataframe: %w", df.Err)
	}
	names := df.Names()
	types := df.Types()
	f := &Frame{
		df:   df,
		cols: make([]Column, len(names)),
		data: make([]columnData, len(names)),
	}
	for j, name := range names {
		f.cols[j] = Column{Name: name, Kind: kindOf(types[j]), DType: dtypeOf(types[j])}
		s := df.Col(name)
		n := s.Len()
		cd := columnData{cells: make([]string, n), na: make([]bool, n), nums: make([]float64, n)}
		for i := 0; i < n; i++ {
			e := s.Elem(i)
			if e.IsNA() {
				cd.na[i] = true
				cd.cells[i] = "NaN"
				cd.nums[i] = math.NaN()
				continue
			}
			cd.nums[i] = e.Float()
			if types[j] == series.Float {
				cd.cells[i] = formatFloat(cd.nums[i])
			} else {
				cd.cells[i] = e.String()
			}
		}
		f.data[j] = cd
	}
	return f, nil
}

func kindOf(t series.Type) Kind {
	switch t {
	case series.Int, series.Float:
		return Numeric
	case series.String:
		return Categorical
	default:
		return Other
	}
}

func dtypeOf(t series.Type) string {
	switch t {
	case series.Int:
		return "int64"
	case series.Float:
		return "float64"
	case series.Bool:
		return "bool"
	case series.String:
		return "object"
	default:
		return string(t)
	}
}

// formatFloat renders floats the way dataframe displays usually do: integral values keep a ".0".
func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		s += ".0"
	}
	return s
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) { return f.df.Nrow(), f.df.Ncol() }

// Rows returns the row count.
func (f *Frame) Rows() int { return f.df.Nrow() }

// Names returns column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name
	}
	return out
}

// Schema returns a copy of the column schema.
func (f *Frame) Schema() []Column {
	out := make([]Column, len(f.cols))
	copy(out, f.cols)
	return out
}

// Has reports whether name is one of the frame's columns.
func (f *Frame) Has(name string) bool {
	return f.index(name) >= 0
}

func (f *Frame) index(name string) int {
	for i, c := range f.cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (f *Frame) mustIndex(name string) int {
	i := f.index(name)
	if i < 0 {
		panic(fmt.Sprintf("dataset: unknown column %q", name))
	}
	return i
}

// Column returns the schema entry for name.
func (f *Frame) Column(name string) (Column, bool) {
	i := f.index(name)
	if i < 0 {
		return Column{}, false
	}
	return f.cols[i], true
}

// NumericColumns lists the columns tagged Numeric, in order.
func (f *Frame) NumericColumns() []string { return f.byKind(Numeric) }

// CategoricalColumns lists the columns tagged Categorical, in order.
func (f *Frame) CategoricalColumns() []string { return f.byKind(Categorical) }

func (f *Frame) byKind(k Kind) []string {
	var out []string
	for _, c := range f.cols {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}

// IsNA reports whether a cell is missing.
func (f *Frame) IsNA(col string, row int) bool {
	return f.data[f.mustIndex(col)].na[row]
}

// Strings returns the display text of a column, row aligned.
func (f *Frame) Strings(col string) []string {
	src := f.data[f.mustIndex(col)].cells
	out := make([]string, len(src))
	copy(out, src)
	return out
}
