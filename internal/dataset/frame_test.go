package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	header := []string{"id", "age", "city", "score", "active"}
	rows := [][]string{
		{"1", "34", "Oslo", "1.5", "true"},
		{"2", "", "Bergen", "2", "false"},
		{"3", "29", "Oslo", "", "true"},
		{"4", "41", "", "3.25", "false"},
		{"5", "29", "Oslo", "2", "true"},
	}
	f, err := FromRecords(header, rows, DefaultOptions())
	require.NoError(t, err)
	return f
}

func TestFromRecordsSchema(t *testing.T) {
	f := sampleFrame(t)

	r, c := f.Shape()
	assert.Equal(t, 5, r)
	assert.Equal(t, 5, c)

	want := []Column{
		{Name: "id", Kind: Numeric, DType: "int64"},
		{Name: "age", Kind: Numeric, DType: "float64"},
		{Name: "city", Kind: Categorical, DType: "object"},
		{Name: "score", Kind: Numeric, DType: "float64"},
		{Name: "active", Kind: Other, DType: "bool"},
	}
	assert.Equal(t, want, f.Schema())
	assert.Equal(t, []string{"id", "age", "score"}, f.NumericColumns())
	assert.Equal(t, []string{"city"}, f.CategoricalColumns())
	assert.True(t, f.Has("city"))
	assert.False(t, f.Has("City"))
}

func TestCellsAndMissing(t *testing.T) {
	f := sampleFrame(t)

	assert.Equal(t, []int{0, 1, 1, 1, 0}, f.NullCounts())
	assert.Equal(t, "NaN", f.Strings("age")[1])
	assert.True(t, f.IsNA("city", 3))
	assert.Equal(t, "2.0", f.Strings("score")[1])
	assert.Equal(t, "1.5", f.Strings("score")[0])
	assert.Equal(t, []string{"1", "34.0", "Oslo", "1.5", "true"}, f.Row(0))

	head := f.Head(2)
	require.Len(t, head, 2)
	assert.Len(t, f.Head(50), 5)
}

func TestNumericCoercion(t *testing.T) {
	f := sampleFrame(t)

	assert.Equal(t, []float64{1.5, 2, 3.25, 2}, f.Numeric("score"))
	withNaN := f.NumericWithNaN("score")
	require.Len(t, withNaN, 5)
	assert.True(t, math.IsNaN(withNaN[2]))
	// text that does not parse is treated as missing
	assert.Empty(t, f.Numeric("city"))
}

func TestNUniqueAndValueCounts(t *testing.T) {
	f := sampleFrame(t)

	assert.Equal(t, 5, f.NUnique("id"))
	assert.Equal(t, 3, f.NUnique("age"))
	assert.Equal(t, 2, f.NUnique("city"))

	assert.Equal(t, []ValueCount{{Value: "Oslo", Count: 3}, {Value: "Bergen", Count: 1}}, f.ValueCounts("city"))
	// ties keep first appearance
	assert.Equal(t, []ValueCount{{Value: "true", Count: 3}, {Value: "false", Count: 2}}, f.ValueCounts("active"))
}

func TestDTypeCounts(t *testing.T) {
	f := sampleFrame(t)
	assert.Equal(t, []DTypeCount{
		{DType: "float64", Count: 2},
		{DType: "int64", Count: 1},
		{DType: "object", Count: 1},
		{DType: "bool", Count: 1},
	}, f.DTypeCounts())
}

func TestDuplicates(t *testing.T) {
	tests := []struct {
		name      string
		rows      [][]string
		wantCount int
		wantRows  []int
	}{
		{
			name:      "none",
			rows:      [][]string{{"1", "a"}, {"2", "b"}, {"3", "c"}},
			wantCount: 0,
		},
		{
			name:      "one pair",
			rows:      [][]string{{"2", "b"}, {"1", "a"}, {"3", "c"}, {"1", "a"}},
			wantCount: 1,
			wantRows:  []int{1, 3},
		},
		{
			name:      "groups sorted together",
			rows:      [][]string{{"10", "z"}, {"2", "b"}, {"10", "z"}, {"2", "b"}, {"10", "z"}},
			wantCount: 3,
			wantRows:  []int{1, 3, 0, 2, 4},
		},
		{
			name:      "missing equals missing",
			rows:      [][]string{{"1", ""}, {"1", ""}, {"1", "x"}},
			wantCount: 1,
			wantRows:  []int{0, 1},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := FromRecords([]string{"n", "s"}, tc.rows, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tc.wantCount, f.DuplicateCount())
			assert.Equal(t, tc.wantRows, f.DuplicateGroupRows())
		})
	}
}

func TestFromRecordsLocaleNormalization(t *testing.T) {
	opt := DefaultOptions()
	opt.DecimalSeparator = ','
	opt.ThousandsSeparator = '.'
	f, err := FromRecords([]string{"amount", "share"}, [][]string{
		{"1.000,5", "12,5%"},
		{"2.000,0", "7%"},
	}, opt)
	require.NoError(t, err)
	assert.Equal(t, []float64{1000.5, 2000}, f.Numeric("amount"))
	assert.Equal(t, []float64{12.5, 7}, f.Numeric("share"))
}

func TestFromRecordsMaxRowsAndPadding(t *testing.T) {
	opt := DefaultOptions()
	opt.MaxRows = 2
	f, err := FromRecords([]string{"a", "", "c"}, [][]string{{"1", "x"}, {"2", "y", "z"}, {"3", "w", "v"}}, opt)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Rows())
	assert.Equal(t, []string{"a", "Unnamed: 1", "c"}, f.Names())
	assert.True(t, f.IsNA("c", 0))
}

func TestFromRecordsMissingCellsBecomeFloat(t *testing.T) {
	f, err := FromRecords([]string{"a", "b", "c", "d"}, [][]string{
		{"1", "", "x", "7"},
		{"2", "", "y", ""},
		{"3", "", "x", "9"},
	}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []Column{
		{Name: "a", Kind: Numeric, DType: "int64"},
		{Name: "b", Kind: Numeric, DType: "float64"},
		{Name: "c", Kind: Categorical, DType: "object"},
		{Name: "d", Kind: Numeric, DType: "float64"},
	}, f.Schema())
	assert.Equal(t, []int{0, 3, 0, 1}, f.NullCounts())
	assert.Empty(t, f.Numeric("b"))
	assert.Equal(t, []float64{7, 9}, f.Numeric("d"))
	assert.Equal(t, []string{"7.0", "NaN", "9.0"}, f.Strings("d"))
}

func TestFromRecordsRejectsEmptyHeader(t *testing.T) {
	_, err := FromRecords(nil, nil, DefaultOptions())
	require.Error(t, err)
}
