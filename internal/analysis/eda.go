package analysis

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/KaramelBytes/zipeda/internal/dataset"
)

// Options sizes the report. The zero value is not useful; start from DefaultOptions.
type Options struct {
	HeadRows      int
	DuplicateRows int
	GridCols      int
	HistogramBins int
	CurvePoints   int
	PairBins      int
	Logger        *slog.Logger
}

// DefaultOptions returns the standard report layout.
func DefaultOptions() Options {
	return Options{
		HeadRows:      5,
		DuplicateRows: 10,
		GridCols:      3,
		HistogramBins: 20,
		CurvePoints:   200,
		PairBins:      10,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.HeadRows <= 0 {
		o.HeadRows = def.HeadRows
	}
	if o.DuplicateRows <= 0 {
		o.DuplicateRows = def.DuplicateRows
	}
	if o.GridCols <= 0 {
		o.GridCols = def.GridCols
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = def.HistogramBins
	}
	if o.CurvePoints < 2 {
		o.CurvePoints = def.CurvePoints
	}
	if o.PairBins <= 0 {
		o.PairBins = def.PairBins
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// reporter carries the state shared by the steps of one run.
type reporter struct {
	ds      *dataset.Frame
	d       Display
	opt     Options
	target  string // empty unless it names a column
	numeric []string
	categ   []string
}

type step struct {
	name string
	run  func() error
}

// Perform runs the exploratory report over ds and emits every artifact to d.
// A target that is empty or not a column of ds disables the target-dependent steps.
// The pairplot is the only step whose render failure is reported and skipped; any other
// display error stops the run and is returned.
func Perform(ds *dataset.Frame, target string, d Display, opt Options) error {
	if ds == nil {
		return fmt.Errorf("perform eda: nil dataset")
	}
	if d == nil {
		return fmt.Errorf("perform eda: nil display")
	}
	r := &reporter{ds: ds, d: d, opt: opt.normalized()}
	if target != "" && ds.Has(target) {
		r.target = target
	} else if target != "" {
		r.opt.Logger.Debug("target not found, target steps disabled", "target", target)
	}
	r.numeric = ds.NumericColumns()
	r.categ = ds.CategoricalColumns()

	steps := []step{
		{"overview", r.overview},
		{"shape", r.shape},
		{"missing values", r.missing},
		{"duplicate rows", r.duplicates},
		{"numeric boxplots", r.boxplots},
		{"boxplots by target", r.boxplotsByTarget},
		{"unique values", r.unique},
		{"feature types", r.featureTypes},
		{"descriptive statistics", r.describe},
		{"target distribution", r.targetDistribution},
		{"histograms", r.histograms},
		{"pairplot", r.pairplot},
		{"categorical counts", r.categoricalCounts},
		{"correlation heatmap", r.heatmap},
	}
	for _, s := range steps {
		start := time.Now()
		if err := s.run(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		r.opt.Logger.Debug("eda step done", "step", s.name, "elapsed", time.Since(start))
	}
	return nil
}

func (r *reporter) overview() error {
	r.d.Println("Dataset Overview:")
	t := Table{Columns: r.ds.Names()}
	for i, row := range r.ds.Head(r.opt.HeadRows) {
		t.Rows = append(t.Rows, TableRow{Label: strconv.Itoa(i), Cells: row})
	}
	r.d.Table(t)
	return nil
}

func (r *reporter) shape() error {
	rows, cols := r.ds.Shape()
	r.d.Println(fmt.Sprintf("Shape: (%d, %d)", rows, cols))
	return nil
}

func (r *reporter) missing() error {
	r.d.Println("Missing Values:")
	t := Table{Columns: []string{"missing"}}
	nulls := r.ds.NullCounts()
	for i, name := range r.ds.Names() {
		t.Rows = append(t.Rows, TableRow{Label: name, Cells: []string{strconv.Itoa(nulls[i])}})
	}
	r.d.Table(t)
	return nil
}

func (r *reporter) duplicates() error {
	r.d.Println(fmt.Sprintf("Duplicated Rows (beyond first): %d", r.ds.DuplicateCount()))
	idx := r.ds.DuplicateGroupRows()
	if len(idx) == 0 {
		r.d.Println("No duplicate rows found.")
		return nil
	}
	if len(idx) > r.opt.DuplicateRows {
		idx = idx[:r.opt.DuplicateRows]
	}
	r.d.Println(fmt.Sprintf("All rows in duplicate groups (showing first %d):", r.opt.DuplicateRows))
	t := Table{Columns: r.ds.Names()}
	for _, i := range idx {
		t.Rows = append(t.Rows, TableRow{Label: strconv.Itoa(i), Cells: r.ds.Row(i)})
	}
	r.d.Table(t)
	return nil
}

// grid returns the row count for n panels laid out GridCols wide.
func (r *reporter) grid(n int) (rows, cols int) {
	cols = r.opt.GridCols
	rows = (n + cols - 1) / cols
	return rows, cols
}

func (r *reporter) boxplots() error {
	if len(r.numeric) == 0 {
		return nil
	}
	r.d.Println("Boxplots for Numeric Features (overall):")
	rows, cols := r.grid(len(r.numeric))
	g := BoxGrid{Rows: rows, Cols: cols, Panels: make([]BoxPanel, rows*cols)}
	for i := range g.Panels {
		if i >= len(r.numeric) {
			g.Panels[i].Hidden = true
			continue
		}
		col := r.numeric[i]
		g.Panels[i] = BoxPanel{Column: col, Values: r.ds.Numeric(col)}
	}
	return r.d.Chart(g)
}

// classes lists the target's categories and the class of each row (-1 when missing).
// Categories keep first appearance, or ascending value for a numeric target.
func (r *reporter) classes() (groups []string, class []int) {
	cells := r.ds.Strings(r.target)
	pos := map[string]int{}
	for i, v := range cells {
		if r.ds.IsNA(r.target, i) {
			continue
		}
		if _, ok := pos[v]; !ok {
			pos[v] = len(groups)
			groups = append(groups, v)
		}
	}
	if c, _ := r.ds.Column(r.target); c.Kind == dataset.Numeric {
		nums := r.ds.NumericWithNaN(r.target)
		val := map[string]float64{}
		for i, v := range cells {
			val[v] = nums[i]
		}
		sort.SliceStable(groups, func(a, b int) bool { return val[groups[a]] < val[groups[b]] })
		for i, g := range groups {
			pos[g] = i
		}
	}
	class = make([]int, len(cells))
	for i, v := range cells {
		if r.ds.IsNA(r.target, i) {
			class[i] = -1
			continue
		}
		class[i] = pos[v]
	}
	return groups, class
}

func (r *reporter) boxplotsByTarget() error {
	if r.target == "" || len(r.numeric) == 0 {
		return nil
	}
	r.d.Println("Boxplots by Target Class: " + r.target)
	groups, class := r.classes()
	for _, col := range r.numeric {
		vals := r.ds.NumericWithNaN(col)
		gb := GroupedBox{Column: col, By: r.target, Groups: groups, Values: make([][]float64, len(groups))}
		for i, v := range vals {
			if class[i] < 0 || math.IsNaN(v) {
				continue
			}
			gb.Values[class[i]] = append(gb.Values[class[i]], v)
		}
		if err := r.d.Chart(gb); err != nil {
			return err
		}
	}
	return nil
}

func (r *reporter) unique() error {
	r.d.Println("Unique Values Per Column:")
	rows := r.ds.Rows()
	t := Table{Columns: []string{"unique_count", "all_unique_flag"}}
	var flagged []string
	for _, name := range r.ds.Names() {
		n := r.ds.NUnique(name)
		flag := n == rows
		if flag {
			flagged = append(flagged, name)
		}
		t.Rows = append(t.Rows, TableRow{Label: name, Cells: []string{strconv.Itoa(n), boolText(flag)}})
	}
	r.d.Table(t)
	if len(flagged) > 0 {
		r.d.Println("Columns with all unique values (possible IDs, consider dropping):")
		r.d.Println(fmt.Sprintf("%q", flagged))
	}
	return nil
}

func boolText(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func (r *reporter) featureTypes() error {
	r.d.Println("Feature Types:")
	t := Table{Columns: []string{"count"}}
	for _, dc := range r.ds.DTypeCounts() {
		t.Rows = append(t.Rows, TableRow{Label: dc.DType, Cells: []string{strconv.Itoa(dc.Count)}})
	}
	r.d.Table(t)
	return nil
}

var describeRows = []string{"count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"}

func (r *reporter) describe() error {
	r.d.Println("Descriptive Statistics:")
	names := r.ds.Names()
	cells := make([][]string, len(describeRows))
	for i := range cells {
		cells[i] = make([]string, len(names))
		for j := range cells[i] {
			cells[i][j] = "NaN"
		}
	}
	for j, c := range r.ds.Schema() {
		switch c.Kind {
		case dataset.Numeric:
			st := describeNumeric(r.ds.Numeric(c.Name))
			for k, row := range []int{0, 4, 5, 6, 7, 8, 9, 10} {
				cells[row][j] = fmtNum(st[k])
			}
		case dataset.Categorical, dataset.Other:
			vc := r.ds.ValueCounts(c.Name)
			var count int
			for _, v := range vc {
				count += v.Count
			}
			cells[0][j] = strconv.Itoa(count)
			cells[1][j] = strconv.Itoa(len(vc))
			if len(vc) > 0 {
				cells[2][j] = vc[0].Value
				cells[3][j] = strconv.Itoa(vc[0].Count)
			}
		}
	}
	t := Table{Columns: names}
	for i, label := range describeRows {
		t.Rows = append(t.Rows, TableRow{Label: label, Cells: cells[i]})
	}
	r.d.Table(t)
	return nil
}

func (r *reporter) targetDistribution() error {
	if r.target == "" {
		return nil
	}
	r.d.Println("Target Distribution:")
	vc := r.ds.ValueCounts(r.target)
	var total int
	for _, v := range vc {
		total += v.Count
	}
	t := Table{Index: r.target, Columns: []string{"proportion"}}
	for _, v := range vc {
		t.Rows = append(t.Rows, TableRow{Label: v.Value, Cells: []string{fmtNum(float64(v.Count) / float64(total))}})
	}
	r.d.Table(t)

	groups, class := r.classes()
	counts := make([]int, len(groups))
	for _, c := range class {
		if c >= 0 {
			counts[c]++
		}
	}
	return r.d.Chart(CountPlot{
		Title:      "Target Class Distribution",
		Column:     r.target,
		Categories: groups,
		Counts:     counts,
	})
}

func (r *reporter) histograms() error {
	if len(r.numeric) == 0 {
		return nil
	}
	r.d.Println("Numeric Feature Histograms with Normal Curve:")
	rows, cols := r.grid(len(r.numeric))
	g := HistogramGrid{Rows: rows, Cols: cols, Panels: make([]HistPanel, rows*cols)}
	for i := range g.Panels {
		if i >= len(r.numeric) {
			g.Panels[i].Hidden = true
			continue
		}
		g.Panels[i] = r.histPanel(r.numeric[i])
	}
	return r.d.Chart(g)
}

func (r *reporter) histPanel(col string) HistPanel {
	vals := r.ds.Numeric(col)
	if len(vals) == 0 {
		return HistPanel{Column: col, Hidden: true}
	}
	s := summarize(vals)
	p := HistPanel{
		Column: col,
		Bins:   densityBins(vals, r.opt.HistogramBins),
		Mean:   s.Mean,
		Std:    s.Std,
	}
	if finite(s.Mean) && finite(s.Std) && s.Std > 0 {
		p.CurveX, p.CurveY = normalCurve(s.Mean, s.Std, s.Min, s.Max, r.opt.CurvePoints)
		p.Title = fmt.Sprintf("%s  |  μ=%.2f, σ=%.2f", col, s.Mean, s.Std)
	} else {
		p.Title = col + "  |  σ=0 (no spread), normal curve skipped"
		r.opt.Logger.Debug("normal curve skipped", "column", col, "mean", s.Mean, "std", s.Std)
	}
	return p
}

func (r *reporter) pairplot() error {
	if len(r.numeric) < 2 {
		return nil
	}
	r.d.Println("Pairplot:")
	pg := PairGrid{Vars: r.numeric}
	for _, col := range r.numeric {
		vals := r.ds.NumericWithNaN(col)
		pg.Values = append(pg.Values, vals)
		pg.Diag = append(pg.Diag, densityBins(vals, r.opt.PairBins))
	}
	if r.target != "" {
		pg.Hue = r.target
		pg.Groups, pg.Class = r.classes()
	}
	if reason := r.renderPair(pg); reason != "" {
		r.d.Println("Pairplot skipped: " + reason)
	}
	return nil
}

// renderPair is the one render whose failure is an outcome rather than an error.
func (r *reporter) renderPair(pg PairGrid) string {
	if err := r.d.Chart(pg); err != nil {
		r.opt.Logger.Debug("pairplot skipped", "err", err)
		return err.Error()
	}
	return ""
}

func (r *reporter) categoricalCounts() error {
	if len(r.categ) == 0 {
		return nil
	}
	r.d.Println("Categorical Feature Counts:")
	for _, col := range r.categ {
		cp := CountPlot{Title: "Distribution of " + col, Column: col, Horizontal: true}
		for _, v := range r.ds.ValueCounts(col) {
			cp.Categories = append(cp.Categories, v.Value)
			cp.Counts = append(cp.Counts, v.Count)
		}
		if err := r.d.Chart(cp); err != nil {
			return err
		}
	}
	return nil
}

func (r *reporter) heatmap() error {
	if len(r.numeric) < 2 {
		return nil
	}
	r.d.Println("Correlation Heatmap:")
	cols := make([][]float64, len(r.numeric))
	for i, col := range r.numeric {
		cols[i] = r.ds.NumericWithNaN(col)
	}
	return r.d.Chart(Heatmap{
		Title:  "Correlation Between Numeric Features",
		Labels: append([]string(nil), r.numeric...),
		Values: correlationMatrix(cols),
		Format: "%.2f",
	})
}
