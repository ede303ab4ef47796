package chart

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/zipeda/internal/analysis"
	"github.com/KaramelBytes/zipeda/internal/dataset"
)

func newTestRenderer(t *testing.T) (*Renderer, *[]string) {
	t.Helper()
	r := New(t.TempDir(), 4, 3)
	r.RunID = "run"
	var written []string
	r.OnWrite = func(p string) { written = append(written, p) }
	return r, &written
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(b))
	require.NoError(t, err, path)
}

func TestRenderEveryKind(t *testing.T) {
	r, written := newTestRenderer(t)
	bins := []analysis.Bin{{Min: 0, Max: 1, Density: 0.25}, {Min: 1, Max: 2, Density: 0.75}}
	charts := []analysis.Chart{
		analysis.BoxGrid{Rows: 1, Cols: 3, Panels: []analysis.BoxPanel{
			{Column: "a", Values: []float64{1, 2, 3, 10}},
			{Column: "b", Values: []float64{4}},
			{Hidden: true},
		}},
		analysis.GroupedBox{Column: "a", By: "label", Groups: []string{"x", "y", "z"},
			Values: [][]float64{{1, 2, 3}, nil, {5, 6}}},
		analysis.CountPlot{Title: "Distribution of city", Column: "city",
			Categories: []string{"Oslo", "Bergen"}, Counts: []int{3, 1}, Horizontal: true},
		analysis.CountPlot{Title: "Target Class Distribution", Column: "label",
			Categories: []string{"x", "y"}, Counts: []int{2, 2}},
		analysis.HistogramGrid{Rows: 1, Cols: 3, Panels: []analysis.HistPanel{
			{Column: "a", Title: "a  |  μ=1.00, σ=0.50", Bins: bins,
				CurveX: []float64{0, 1, 2}, CurveY: []float64{0.1, 0.8, 0.1}},
			{Column: "b", Title: "b  |  σ=0 (no spread), normal curve skipped", Bins: bins},
			{Hidden: true},
		}},
		analysis.PairGrid{
			Vars:   []string{"a", "b"},
			Values: [][]float64{{1, 2, 3, math.NaN()}, {2, 1, 4, 5}},
			Diag:   [][]analysis.Bin{bins, bins},
			Hue:    "label", Groups: []string{"x", "y"}, Class: []int{0, 1, 0, -1},
		},
		analysis.Heatmap{Title: "Correlation Between Numeric Features", Labels: []string{"a", "b"},
			Values: [][]float64{{1, -0.3}, {-0.3, 1}}, Format: "%.2f"},
	}
	for _, c := range charts {
		require.NoError(t, r.Render(c), c.Name())
	}

	require.Len(t, *written, len(charts))
	assert.Equal(t, filepath.Join(r.Dir, "run", "01_boxplots.png"), (*written)[0])
	assert.Equal(t, filepath.Join(r.Dir, "run", "07_correlation_heatmap.png"), (*written)[6])
	for _, p := range *written {
		assertPNG(t, p)
	}
}

func TestRenderPairGridTooManyVars(t *testing.T) {
	r, written := newTestRenderer(t)
	r.MaxPairVars = 2
	pg := analysis.PairGrid{Vars: []string{"a", "b", "c"}, Values: make([][]float64, 3), Diag: make([][]analysis.Bin, 3)}
	err := r.Render(pg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 variables exceed the pairplot limit of 2")
	assert.Empty(t, *written)
}

func TestRenderPairGridNineVarsWithinDefaultLimit(t *testing.T) {
	r, written := newTestRenderer(t)
	require.Equal(t, DefaultMaxPairVars, r.MaxPairVars)
	bins := []analysis.Bin{{Min: 0, Max: 2, Density: 0.25}, {Min: 2, Max: 4, Density: 0.25}}
	var pg analysis.PairGrid
	for i := 0; i < 9; i++ {
		pg.Vars = append(pg.Vars, string(rune('a'+i)))
		pg.Values = append(pg.Values, []float64{1, float64(i), 3})
		pg.Diag = append(pg.Diag, bins)
	}
	require.NoError(t, r.Render(pg))
	require.Len(t, *written, 1)
	assertPNG(t, (*written)[0])
}

func TestRenderHeatmapRejectsRagged(t *testing.T) {
	r, _ := newTestRenderer(t)
	err := r.Render(analysis.Heatmap{Labels: []string{"a", "b"}, Values: [][]float64{{1}}})
	require.Error(t, err)
}

func TestPerformWritesCharts(t *testing.T) {
	f, err := dataset.FromRecords(
		[]string{"x", "y", "flat", "city"},
		[][]string{
			{"1", "2.5", "4", "Oslo"},
			{"2", "", "4", "Bergen"},
			{"3", "1.5", "4", "Oslo"},
			{"4", "3.0", "4", "Tromsø"},
		},
		dataset.DefaultOptions(),
	)
	require.NoError(t, err)

	r, written := newTestRenderer(t)
	var out bytes.Buffer
	require.NoError(t, analysis.Perform(f, "city", analysis.NewConsole(&out, r), analysis.DefaultOptions()))

	names := make([]string, len(*written))
	for i, p := range *written {
		names[i] = filepath.Base(p)
	}
	assert.Equal(t, []string{
		"01_boxplots.png",
		"02_box_x_by_city.png",
		"03_box_y_by_city.png",
		"04_box_flat_by_city.png",
		"05_count_city.png",
		"06_histograms.png",
		"07_pairplot.png",
		"08_count_city.png",
		"09_correlation_heatmap.png",
	}, names)
	assert.NotContains(t, out.String(), "Pairplot skipped")
}

func TestPerformPairplotSkippedOnLimit(t *testing.T) {
	f, err := dataset.FromRecords(
		[]string{"a", "b", "c"},
		[][]string{{"1", "2", "3"}, {"2", "1", "5"}, {"4", "4", "4"}},
		dataset.DefaultOptions(),
	)
	require.NoError(t, err)

	r, _ := newTestRenderer(t)
	r.MaxPairVars = 2
	var out bytes.Buffer
	require.NoError(t, analysis.Perform(f, "", analysis.NewConsole(&out, r), analysis.DefaultOptions()))
	assert.Contains(t, out.String(), "Pairplot skipped: pairplot: 3 variables exceed the pairplot limit of 2")
	assert.Contains(t, out.String(), "Correlation Heatmap:")
}
