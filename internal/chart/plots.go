package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/zipeda/internal/analysis"
)

var (
	barFill   = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	curveLine = color.RGBA{R: 196, G: 78, B: 82, A: 255}
	nanFill   = color.Gray{Y: 230}
)

// figure is a grid of plots; hidden cells keep their tile but are not drawn.
type figure struct {
	plots  [][]*plot.Plot
	hidden [][]bool
	square bool
}

func single(p *plot.Plot) figure {
	return figure{plots: [][]*plot.Plot{{p}}, hidden: [][]bool{{false}}}
}

func newGrid(rows, cols int) figure {
	f := figure{plots: make([][]*plot.Plot, rows), hidden: make([][]bool, rows)}
	for i := range f.plots {
		f.plots[i] = make([]*plot.Plot, cols)
		f.hidden[i] = make([]bool, cols)
	}
	return f
}

func (f figure) dims() (rows, cols int) {
	if len(f.plots) == 0 {
		return 0, 0
	}
	return len(f.plots), len(f.plots[0])
}

func (f figure) draw(dc draw.Canvas) {
	rows, cols := f.dims()
	if rows == 1 && cols == 1 {
		f.plots[0][0].Draw(dc)
		return
	}
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      4 * vg.Millimeter,
		PadY:      4 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	canvases := plot.Align(f.plots, tiles, dc)
	for j := range f.plots {
		for i, p := range f.plots[j] {
			if f.hidden[j][i] {
				continue
			}
			p.Draw(canvases[j][i])
		}
	}
}

// blank is an empty plot with a fixed range so layout never sees an unset axis.
func blank() *plot.Plot {
	p := plot.New()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.HideAxes()
	return p
}

func finiteValues(xs []float64) plotter.Values {
	out := make(plotter.Values, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func boxGrid(g analysis.BoxGrid) (figure, error) {
	f := newGrid(g.Rows, g.Cols)
	for k, panel := range g.Panels {
		r, c := k/g.Cols, k%g.Cols
		vals := finiteValues(panel.Values)
		if panel.Hidden || len(vals) == 0 {
			f.plots[r][c] = blank()
			f.hidden[r][c] = panel.Hidden
			continue
		}
		p := plot.New()
		p.Title.Text = panel.Column
		b, err := plotter.NewBoxPlot(vg.Points(20), 0, vals)
		if err != nil {
			return figure{}, fmt.Errorf("boxplot %s: %w", panel.Column, err)
		}
		b.Horizontal = true
		b.FillColor = barFill
		p.Add(b)
		p.HideY()
		f.plots[r][c] = p
	}
	return f, nil
}

func groupedBox(g analysis.GroupedBox) (figure, error) {
	p := plot.New()
	p.Title.Text = g.Title()
	p.X.Label.Text = g.By
	p.Y.Label.Text = g.Column
	var drawn int
	for i, vals := range g.Values {
		vs := finiteValues(vals)
		if len(vs) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(20), float64(i), vs)
		if err != nil {
			return figure{}, fmt.Errorf("group %s: %w", g.Groups[i], err)
		}
		b.FillColor = plotutil.Color(i)
		p.Add(b)
		drawn++
	}
	if drawn == 0 {
		p.Y.Min, p.Y.Max = 0, 1
	}
	p.NominalX(g.Groups...)
	return single(p), nil
}

func countPlot(cp analysis.CountPlot) (figure, error) {
	p := plot.New()
	p.Title.Text = cp.Title
	if len(cp.Categories) == 0 {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
		return single(p), nil
	}
	vals := make(plotter.Values, len(cp.Counts))
	labels := make([]string, len(cp.Categories))
	for i, n := range cp.Counts {
		j := i
		if cp.Horizontal {
			// bars stack upwards; most frequent goes on top
			j = len(cp.Counts) - 1 - i
		}
		vals[j] = float64(n)
		labels[j] = cp.Categories[i]
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(18))
	if err != nil {
		return figure{}, err
	}
	bars.Color = barFill
	bars.LineStyle.Width = 0
	if cp.Horizontal {
		bars.Horizontal = true
		p.NominalY(labels...)
		p.X.Label.Text = "count"
	} else {
		p.NominalX(labels...)
		p.X.Label.Text = cp.Column
		p.Y.Label.Text = "count"
	}
	p.Add(bars)
	return single(p), nil
}

func histogram(bins []analysis.Bin) *plotter.Histogram {
	hb := make([]plotter.HistogramBin, len(bins))
	for i, b := range bins {
		hb[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: b.Density}
	}
	h := &plotter.Histogram{Bins: hb, FillColor: barFill, LineStyle: plotter.DefaultLineStyle}
	h.LineStyle.Width = vg.Points(0.5)
	return h
}

func histogramGrid(g analysis.HistogramGrid) (figure, error) {
	f := newGrid(g.Rows, g.Cols)
	for k, panel := range g.Panels {
		r, c := k/g.Cols, k%g.Cols
		if panel.Hidden || len(panel.Bins) == 0 {
			f.plots[r][c] = blank()
			f.hidden[r][c] = true
			continue
		}
		p := plot.New()
		p.Title.Text = panel.Title
		p.Y.Label.Text = "density"
		p.Add(histogram(panel.Bins))
		if panel.HasCurve() {
			pts := make(plotter.XYs, len(panel.CurveX))
			for i := range pts {
				pts[i] = plotter.XY{X: panel.CurveX[i], Y: panel.CurveY[i]}
			}
			l, err := plotter.NewLine(pts)
			if err != nil {
				return figure{}, fmt.Errorf("normal curve %s: %w", panel.Column, err)
			}
			l.LineStyle.Color = curveLine
			l.LineStyle.Width = vg.Points(2)
			p.Add(l)
		}
		f.plots[r][c] = p
	}
	return f, nil
}

func pairGrid(g analysis.PairGrid, maxVars int) (figure, error) {
	n := len(g.Vars)
	if n > maxVars {
		return figure{}, fmt.Errorf("%d variables exceed the pairplot limit of %d", n, maxVars)
	}
	f := newGrid(n, n)
	f.square = true
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case j > i:
				f.plots[i][j] = blank()
				f.hidden[i][j] = true
			case j == i:
				p := plot.New()
				p.X.Label.Text = g.Vars[i]
				if len(g.Diag[i]) > 0 {
					p.Add(histogram(g.Diag[i]))
				} else {
					p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = 0, 1, 0, 1
				}
				f.plots[i][j] = p
			default:
				p, err := pairScatter(g, j, i)
				if err != nil {
					return figure{}, fmt.Errorf("%s vs %s: %w", g.Vars[i], g.Vars[j], err)
				}
				f.plots[i][j] = p
			}
		}
	}
	return f, nil
}

// pairScatter plots var x against var y, one series per hue group.
func pairScatter(g analysis.PairGrid, x, y int) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = g.Vars[x]
	p.Y.Label.Text = g.Vars[y]
	groups := 1
	if g.Hue != "" {
		groups = len(g.Groups)
	}
	series := make([]plotter.XYs, groups)
	xs, ys := g.Values[x], g.Values[y]
	for k := range xs {
		if math.IsNaN(xs[k]) || math.IsNaN(ys[k]) || math.IsInf(xs[k], 0) || math.IsInf(ys[k], 0) {
			continue
		}
		gi := 0
		if g.Hue != "" {
			gi = g.Class[k]
			if gi < 0 {
				continue
			}
		}
		series[gi] = append(series[gi], plotter.XY{X: xs[k], Y: ys[k]})
	}
	var drawn int
	for gi, pts := range series {
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = plotutil.Color(gi)
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		if g.Hue != "" && x == 0 && y == 1 {
			p.Legend.Add(g.Groups[gi], s)
		}
		drawn++
	}
	if drawn == 0 {
		p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = 0, 1, 0, 1
	}
	return p, nil
}

// matrix adapts a square matrix to plotter.GridXYZ with row 0 at the top.
type matrix [][]float64

func (m matrix) Dims() (c, r int)   { return len(m), len(m) }
func (m matrix) Z(c, r int) float64 { return m[len(m)-1-r][c] }
func (m matrix) X(c int) float64    { return float64(c) }
func (m matrix) Y(r int) float64    { return float64(r) }

func heatmap(hm analysis.Heatmap) (figure, error) {
	n := len(hm.Labels)
	if n == 0 || len(hm.Values) != n {
		return figure{}, fmt.Errorf("heatmap needs a square matrix, got %d labels and %d rows", n, len(hm.Values))
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	h := plotter.NewHeatMap(matrix(hm.Values), cm.Palette(255))
	h.Min, h.Max = -1, 1
	h.NaN = nanFill

	format := hm.Format
	if format == "" {
		format = "%.2f"
	}
	var xy plotter.XYLabels
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			xy.XYs = append(xy.XYs, plotter.XY{X: float64(c), Y: float64(n - 1 - r)})
			xy.Labels = append(xy.Labels, fmt.Sprintf(format, hm.Values[r][c]))
		}
	}
	labels, err := plotter.NewLabels(xy)
	if err != nil {
		return figure{}, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
	}

	p := plot.New()
	p.Title.Text = hm.Title
	p.Add(h, labels)
	xt := make(plot.ConstantTicks, n)
	yt := make(plot.ConstantTicks, n)
	for i, l := range hm.Labels {
		xt[i] = plot.Tick{Value: float64(i), Label: l}
		yt[i] = plot.Tick{Value: float64(n - 1 - i), Label: l}
	}
	p.X.Tick.Marker = xt
	p.Y.Tick.Marker = yt
	return single(p), nil
}
