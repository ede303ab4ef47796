package chart

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/zipeda/internal/analysis"
	"github.com/KaramelBytes/zipeda/internal/utils"
)

// DefaultMaxPairVars bounds the pairplot matrix; larger matrices are refused.
const DefaultMaxPairVars = 16

// Renderer draws chart artifacts to PNG files under Dir/RunID.
// Files are numbered in render order: 01_boxplots.png, 02_count_city.png, ...
type Renderer struct {
	Dir string
	// Width and Height size a single chart; grids scale Height by their row count.
	Width, Height vg.Length
	RunID         string
	MaxPairVars   int
	// OnWrite is called with the path of every written image.
	OnWrite func(path string)
	Logger  *slog.Logger

	seq int
}

// New returns a renderer writing into a fresh run directory under dir.
// Width and height are in inches.
func New(dir string, width, height float64) *Renderer {
	if width <= 0 {
		width = 10
	}
	if height <= 0 {
		height = 6
	}
	return &Renderer{
		Dir:         dir,
		Width:       vg.Length(width) * vg.Inch,
		Height:      vg.Length(height) * vg.Inch,
		RunID:       uuid.NewString(),
		MaxPairVars: DefaultMaxPairVars,
	}
}

// RunDir is the directory images of this run are written to.
func (r *Renderer) RunDir() string { return filepath.Join(r.Dir, r.RunID) }

// Render implements analysis.ChartRenderer.
func (r *Renderer) Render(c analysis.Chart) error {
	var (
		fig figure
		err error
	)
	switch ch := c.(type) {
	case analysis.BoxGrid:
		fig, err = boxGrid(ch)
	case analysis.GroupedBox:
		fig, err = groupedBox(ch)
	case analysis.CountPlot:
		fig, err = countPlot(ch)
	case analysis.HistogramGrid:
		fig, err = histogramGrid(ch)
	case analysis.PairGrid:
		fig, err = pairGrid(ch, r.maxPairVars())
	case analysis.Heatmap:
		fig, err = heatmap(ch)
	default:
		return fmt.Errorf("unsupported chart kind %q", c.Kind())
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c.Name(), err)
	}

	w, h := r.size(fig)
	img := vgimg.New(w, h)
	fig.draw(draw.New(img))
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	r.seq++
	path := filepath.Join(r.RunDir(), fmt.Sprintf("%02d_%s.png", r.seq, c.Name()))
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	if r.Logger != nil {
		r.Logger.Debug("chart written", "kind", c.Kind(), "path", path, "bytes", buf.Len())
	}
	if r.OnWrite != nil {
		r.OnWrite(path)
	}
	return nil
}

func (r *Renderer) maxPairVars() int {
	if r.MaxPairVars <= 0 {
		return DefaultMaxPairVars
	}
	return r.MaxPairVars
}

// size scales the canvas to the figure's grid.
func (r *Renderer) size(f figure) (vg.Length, vg.Length) {
	rows, cols := f.dims()
	w, h := r.Width, r.Height
	if w <= 0 {
		w = 10 * vg.Inch
	}
	if h <= 0 {
		h = 6 * vg.Inch
	}
	if f.square {
		side := w / 3 * vg.Length(cols)
		if side < w {
			side = w
		}
		return side, side
	}
	if rows > 1 {
		h = h / 2 * vg.Length(rows)
	}
	return w, h
}
