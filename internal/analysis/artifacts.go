package analysis

// Table is a rendered grid with a labelled index column, the way a dataframe is displayed.
type Table struct {
	// Index is the header of the index column; may be empty.
	Index   string
	Columns []string
	Rows    []TableRow
}

// TableRow is one line of a Table.
type TableRow struct {
	Label string
	Cells []string
}

// ChartKind identifies the chart families the reporter emits.
type ChartKind string

const (
	KindBoxGrid       ChartKind = "box_grid"
	KindGroupedBox    ChartKind = "grouped_box"
	KindCountPlot     ChartKind = "count_plot"
	KindHistogramGrid ChartKind = "histogram_grid"
	KindPairGrid      ChartKind = "pair_grid"
	KindHeatmap       ChartKind = "heatmap"
)

// Chart is a chart artifact. Rendering is left to the environment.
type Chart interface {
	Kind() ChartKind
	// Name is a short slug suitable for file names.
	Name() string
}

// BoxPanel is one cell of a BoxGrid.
type BoxPanel struct {
	Column string
	Values []float64
	Hidden bool
}

// BoxGrid lays out one horizontal boxplot per numeric column.
// len(Panels) == Rows*Cols; trailing unused cells are Hidden.
type BoxGrid struct {
	Rows, Cols int
	Panels     []BoxPanel
}

func (BoxGrid) Kind() ChartKind { return KindBoxGrid }
func (BoxGrid) Name() string    { return "boxplots" }

// GroupedBox is a boxplot of Column split by the classes of By.
type GroupedBox struct {
	Column string
	By     string
	Groups []string
	Values [][]float64 // per group
}

func (GroupedBox) Kind() ChartKind { return KindGroupedBox }
func (g GroupedBox) Name() string  { return "box_" + slug(g.Column) + "_by_" + slug(g.By) }

// Title is the chart heading.
func (g GroupedBox) Title() string { return g.Column + " by " + g.By }

// CountPlot is a bar chart of category frequencies in the given order.
type CountPlot struct {
	Title      string
	Column     string
	Categories []string
	Counts     []int
	Horizontal bool
}

func (CountPlot) Kind() ChartKind { return KindCountPlot }
func (c CountPlot) Name() string  { return "count_" + slug(c.Column) }

// Bin is one histogram bar; Density is count/(n*width).
type Bin struct {
	Min, Max float64
	Density  float64
}

// HistPanel is one cell of a HistogramGrid.
type HistPanel struct {
	Column string
	Title  string
	Bins   []Bin
	Mean   float64
	Std    float64
	// CurveX/CurveY hold the fitted normal pdf; empty when the curve is skipped.
	CurveX []float64
	CurveY []float64
	Hidden bool
}

// HasCurve reports whether a normal curve is overlaid.
func (p HistPanel) HasCurve() bool { return len(p.CurveX) > 0 }

// HistogramGrid lays out one density histogram per numeric column.
type HistogramGrid struct {
	Rows, Cols int
	Panels     []HistPanel
}

func (HistogramGrid) Kind() ChartKind { return KindHistogramGrid }
func (HistogramGrid) Name() string    { return "histograms" }

// PairGrid is a lower-triangular scatter matrix with histogram diagonals.
type PairGrid struct {
	Vars   []string
	Values [][]float64 // per var, row aligned, NaN for missing
	Diag   [][]Bin     // per var
	// Hue is the grouping column; empty when ungrouped.
	Hue    string
	Groups []string
	Class  []int // per row index into Groups, -1 when the row has no class
}

func (PairGrid) Kind() ChartKind { return KindPairGrid }
func (PairGrid) Name() string    { return "pairplot" }

// Heatmap is an annotated square matrix.
type Heatmap struct {
	Title  string
	Labels []string
	Values [][]float64
	Format string
}

func (Heatmap) Kind() ChartKind { return KindHeatmap }
func (Heatmap) Name() string    { return "correlation_heatmap" }
