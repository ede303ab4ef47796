package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/zipeda/internal/dataset"
)

// recorder captures emissions in order.
type recorder struct {
	lines  []string
	tables []Table
	charts []Chart
	// fail makes Chart return an error for the given kind.
	fail map[ChartKind]error
}

func (r *recorder) Println(line string) { r.lines = append(r.lines, line) }
func (r *recorder) Table(t Table)       { r.tables = append(r.tables, t) }

func (r *recorder) Chart(c Chart) error {
	if err := r.fail[c.Kind()]; err != nil {
		return err
	}
	r.charts = append(r.charts, c)
	return nil
}

func (r *recorder) hasLine(prefix string) bool {
	for _, l := range r.lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func (r *recorder) lineAfter(prefix string) string {
	for i, l := range r.lines {
		if strings.HasPrefix(l, prefix) && i+1 < len(r.lines) {
			return r.lines[i+1]
		}
	}
	return ""
}

func (r *recorder) chartsOf(kind ChartKind) []Chart {
	var out []Chart
	for _, c := range r.charts {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

func frame(t *testing.T, header []string, rows ...[]string) *dataset.Frame {
	t.Helper()
	f, err := dataset.FromRecords(header, rows, dataset.DefaultOptions())
	require.NoError(t, err)
	return f
}

func run(t *testing.T, f *dataset.Frame, target string) *recorder {
	t.Helper()
	rec := &recorder{}
	require.NoError(t, Perform(f, target, rec, DefaultOptions()))
	return rec
}
