package dataset

import (
	"math"
	"sort"
	"strings"
)

// ValueCount is one category and how often it occurs.
type ValueCount struct {
	Value string
	Count int
}

// DTypeCount is the number of columns sharing a dtype.
type DTypeCount struct {
	DType string
	Count int
}

// Row returns the display cells of one row.
func (f *Frame) Row(i int) []string {
	out := make([]string, len(f.cols))
	for j := range f.cols {
		out[j] = f.data[j].cells[i]
	}
	return out
}

// Head returns up to n leading rows.
func (f *Frame) Head(n int) [][]string {
	rows := f.Rows()
	if n > rows {
		n = rows
	}
	out := make([][]string, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, f.Row(i))
	}
	return out
}

// NullCounts returns the number of missing cells per column, in column order.
func (f *Frame) NullCounts() []int {
	out := make([]int, len(f.cols))
	for j, cd := range f.data {
		for _, na := range cd.na {
			if na {
				out[j]++
			}
		}
	}
	return out
}

// rowKey identifies a row by every cell; missing equals missing.
func (f *Frame) rowKey(i int) string {
	var b strings.Builder
	for j := range f.cols {
		if j > 0 {
			b.WriteByte(0x1f)
		}
		if f.data[j].na[i] {
			b.WriteString("\x00NA")
			continue
		}
		b.WriteString(f.data[j].cells[i])
	}
	return b.String()
}

// Duplicated marks every row that repeats an earlier row (first occurrence unmarked).
func (f *Frame) Duplicated() []bool {
	n := f.Rows()
	out := make([]bool, n)
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		k := f.rowKey(i)
		if _, ok := seen[k]; ok {
			out[i] = true
			continue
		}
		seen[k] = struct{}{}
	}
	return out
}

// DuplicateCount is the number of rows beyond the first occurrence of each duplicate group.
func (f *Frame) DuplicateCount() int {
	var n int
	for _, d := range f.Duplicated() {
		if d {
			n++
		}
	}
	return n
}

// DuplicateGroupRows returns the indexes of all rows that belong to a duplicate group,
// first occurrences included, sorted by every column so identical rows are adjacent.
func (f *Frame) DuplicateGroupRows() []int {
	n := f.Rows()
	keys := make([]string, n)
	counts := make(map[string]int, n)
	for i := 0; i < n; i++ {
		keys[i] = f.rowKey(i)
		counts[keys[i]]++
	}
	var idx []int
	for i := 0; i < n; i++ {
		if counts[keys[i]] > 1 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return f.compareRows(idx[a], idx[b]) < 0
	})
	return idx
}

// compareRows orders two rows column by column. Numeric columns compare by value, others by
// text; missing cells sort last.
func (f *Frame) compareRows(a, b int) int {
	for j, c := range f.cols {
		cd := f.data[j]
		naA, naB := cd.na[a], cd.na[b]
		switch {
		case naA && naB:
			continue
		case naA:
			return 1
		case naB:
			return -1
		}
		if c.Kind == Numeric {
			x, y := cd.nums[a], cd.nums[b]
			if x < y {
				return -1
			}
			if x > y {
				return 1
			}
			continue
		}
		if r := strings.Compare(cd.cells[a], cd.cells[b]); r != 0 {
			return r
		}
	}
	return 0
}

// NUnique counts distinct non-missing values of a column.
func (f *Frame) NUnique(col string) int {
	cd := f.data[f.mustIndex(col)]
	seen := make(map[string]struct{})
	for i, v := range cd.cells {
		if cd.na[i] {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

// DTypeCounts counts columns per dtype, most frequent first; ties keep first appearance.
func (f *Frame) DTypeCounts() []DTypeCount {
	var out []DTypeCount
	pos := map[string]int{}
	for _, c := range f.cols {
		if i, ok := pos[c.DType]; ok {
			out[i].Count++
			continue
		}
		pos[c.DType] = len(out)
		out = append(out, DTypeCount{DType: c.DType, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// ValueCounts counts non-missing values of a column, most frequent first; ties keep first
// appearance.
func (f *Frame) ValueCounts(col string) []ValueCount {
	cd := f.data[f.mustIndex(col)]
	var out []ValueCount
	pos := map[string]int{}
	for i, v := range cd.cells {
		if cd.na[i] {
			continue
		}
		if p, ok := pos[v]; ok {
			out[p].Count++
			continue
		}
		pos[v] = len(out)
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// NumericWithNaN returns the column coerced to numbers, row aligned; values that are missing
// or cannot be parsed become NaN.
func (f *Frame) NumericWithNaN(col string) []float64 {
	src := f.data[f.mustIndex(col)].nums
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// Numeric returns the column coerced to numbers with missing and unparseable values dropped.
func (f *Frame) Numeric(col string) []float64 {
	src := f.data[f.mustIndex(col)].nums
	out := make([]float64, 0, len(src))
	for _, v := range src {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
