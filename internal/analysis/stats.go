package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
)

// summary holds the moments of a numeric sample.
type summary struct {
	N        int
	Mean     float64
	Std      float64 // sample std (n-1); NaN when N < 2
	Min, Max float64
}

func summarize(xs []float64) summary {
	s := summary{N: len(xs), Mean: math.NaN(), Std: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	if len(xs) == 0 {
		return s
	}
	sample := stats.Sample{Xs: xs}
	s.Mean = sample.Mean()
	s.Min, s.Max = sample.Bounds()
	if len(xs) > 1 {
		s.Std = sample.StdDev()
	}
	return s
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// normalCurve evaluates the Gaussian pdf at n evenly spaced points over [lo, hi].
func normalCurve(mu, sigma, lo, hi float64, n int) (xs, ys []float64) {
	xs = vec.Linspace(lo, hi, n)
	ys = make([]float64, len(xs))
	dist := stats.NormalDist{Mu: mu, Sigma: sigma}
	for i, x := range xs {
		ys[i] = dist.PDF(x)
	}
	return xs, ys
}

// densityBins splits the finite values into n equal-width bins over [min, max]; the last bin
// is closed. A zero-width range is widened by 0.5 on each side.
func densityBins(vals []float64, n int) []Bin {
	if n <= 0 {
		return nil
	}
	xs := make([]float64, 0, len(vals))
	for _, v := range vals {
		if finite(v) {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return nil
	}
	lo, hi := stats.Sample{Xs: xs}.Bounds()
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(n)
	counts := make([]int, n)
	for _, v := range xs {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}
	bins := make([]Bin, n)
	total := float64(len(xs))
	for i := range bins {
		bins[i] = Bin{
			Min:     lo + float64(i)*width,
			Max:     lo + float64(i+1)*width,
			Density: float64(counts[i]) / (total * width),
		}
	}
	bins[n-1].Max = hi
	return bins
}

// quantile interpolates linearly between closest ranks of a sorted sample.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// pearson computes the correlation over rows where both values are present.
// It returns NaN when fewer than two such rows exist or either side is constant.
func pearson(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if i >= len(y) || math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}
	mx := stats.Sample{Xs: xs}.Mean()
	my := stats.Sample{Xs: ys}.Mean()
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	r := sxy / math.Sqrt(sxx*syy)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}

// correlationMatrix is the symmetric pairwise Pearson matrix of the given columns.
func correlationMatrix(cols [][]float64) [][]float64 {
	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			r := pearson(cols[a], cols[b])
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return mat
}

// describeNumeric returns count, mean, std, min, 25%, 50%, 75%, max.
func describeNumeric(xs []float64) [8]float64 {
	s := summarize(xs)
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return [8]float64{
		float64(s.N), s.Mean, s.Std, s.Min,
		quantile(sorted, 0.25), quantile(sorted, 0.5), quantile(sorted, 0.75), s.Max,
	}
}

// fmtNum renders a statistic with up to six decimals and no trailing zeros.
func fmtNum(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "col"
	}
	return out
}
