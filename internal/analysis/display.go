package analysis

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Display is the output surface of a run. Artifacts arrive in pipeline order.
type Display interface {
	Println(line string)
	Table(t Table)
	Chart(c Chart) error
}

// ChartRenderer draws chart artifacts.
type ChartRenderer interface {
	Render(c Chart) error
}

// Console prints text and markdown tables to Out and hands charts to Charts.
// Without a renderer a chart is printed as a one-line description.
type Console struct {
	Out    io.Writer
	Charts ChartRenderer
}

// NewConsole returns a Console; charts may be nil.
func NewConsole(out io.Writer, charts ChartRenderer) *Console {
	return &Console{Out: out, Charts: charts}
}

func (c *Console) Println(line string) {
	fmt.Fprintln(c.Out, line)
}

// Table renders t as a markdown table.
func (c *Console) Table(t Table) {
	io.WriteString(c.Out, t.Markdown())
}

func (c *Console) Chart(ch Chart) error {
	if c.Charts != nil {
		return c.Charts.Render(ch)
	}
	fmt.Fprintf(c.Out, "[chart: %s] %s\n", ch.Kind(), Describe(ch))
	return nil
}

// Markdown renders the table with its index as the first column.
func (t Table) Markdown() string {
	var b strings.Builder
	b.WriteString("| ")
	b.WriteString(safeVal(t.Index))
	for _, c := range t.Columns {
		b.WriteString(" | ")
		b.WriteString(safeName(c))
	}
	b.WriteString(" |\n|")
	for i := 0; i <= len(t.Columns); i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		b.WriteString("| ")
		b.WriteString(safeVal(row.Label))
		for i := range t.Columns {
			b.WriteString(" | ")
			val := ""
			if i < len(row.Cells) {
				val = row.Cells[i]
			}
			if utf8.RuneCountInString(val) > 80 {
				val = string([]rune(val)[:77]) + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// Describe summarizes a chart in one line.
func Describe(ch Chart) string {
	switch c := ch.(type) {
	case BoxGrid:
		return fmt.Sprintf("%d horizontal boxplots in a %dx%d grid", used(len(c.Panels), func(i int) bool { return c.Panels[i].Hidden }), c.Rows, c.Cols)
	case GroupedBox:
		return fmt.Sprintf("%s (%d groups)", c.Title(), len(c.Groups))
	case CountPlot:
		return fmt.Sprintf("%s (%d categories)", c.Title, len(c.Categories))
	case HistogramGrid:
		var titles []string
		for _, p := range c.Panels {
			if !p.Hidden {
				titles = append(titles, p.Title)
			}
		}
		return fmt.Sprintf("histograms in a %dx%d grid: %s", c.Rows, c.Cols, strings.Join(titles, "; "))
	case PairGrid:
		if c.Hue != "" {
			return fmt.Sprintf("pairplot of %s colored by %s", strings.Join(c.Vars, ", "), c.Hue)
		}
		return "pairplot of " + strings.Join(c.Vars, ", ")
	case Heatmap:
		return fmt.Sprintf("%s (%dx%d)", c.Title, len(c.Labels), len(c.Labels))
	default:
		return string(ch.Kind())
	}
}

func used(n int, hidden func(int) bool) int {
	var k int
	for i := 0; i < n; i++ {
		if !hidden(i) {
			k++
		}
	}
	return k
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return safeVal(s)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
