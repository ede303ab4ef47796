package dataset

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadFileCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "harvest.csv")
	content := "date,plot,alpha_acids,moisture\n" +
		"2024-08-10,A1,12.5,74\n" +
		"2024-08-12,A1,11.8,71\n" +
		"2024-08-15,B3,10.2,68\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	f, err := LoadFile(p, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "harvest.csv", f.Name)
	r, c := f.Shape()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, []string{"alpha_acids", "moisture"}, f.NumericColumns())
	assert.Equal(t, []string{"date", "plot"}, f.CategoricalColumns())
}

func TestLoadFileSemicolonSniffed(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "eu.csv")
	content := "Group;Score;Note\nA;10;first\nB;11;second\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	f, err := LoadFile(p, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Group", "Score", "Note"}, f.Names())
	assert.Equal(t, []float64{10, 11}, f.Numeric("Score"))
}

func TestReadCSVRaggedRows(t *testing.T) {
	in := "a,b,c\n1,2\n3,4,5\n"
	f, err := ReadCSV(strings.NewReader(in), "ragged.csv", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1}, f.NullCounts())
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "empty.csv", DefaultOptions())
	require.Error(t, err)
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name string
		file string
		in   string
		want rune
	}{
		{"comma", "a.csv", "a,b,c\n1,2,3\n", ','},
		{"semicolon", "a.csv", "a;b;c\n1;2;3\n", ';'},
		{"tab by content", "a.txt", "a\tb\n1\t2\n", '\t'},
		{"tab by extension", "a.tsv", "a,b\n", '\t'},
		{"single column", "a.csv", "a\n1\n", ','},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := sniffDelimiter(tc.file, bufio.NewReader(strings.NewReader(tc.in)))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadFileUnsupported(t *testing.T) {
	_, err := LoadFile("report.docx", DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), "Notes"))
	require.NoError(t, f.SetCellValue("Notes", "A1", "nothing here"))
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	rows := [][]interface{}{
		{"name", "height", "team"},
		{"ana", 1.71, "red"},
		{"bo", 1.80, "blue"},
		{"cy", 1.65, "red"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Data", cell, &row))
	}
	p := filepath.Join(t.TempDir(), "people.xlsx")
	require.NoError(t, f.SaveAs(p))
	return p
}

func TestLoadFileXLSX(t *testing.T) {
	p := writeWorkbook(t)

	opt := DefaultOptions()
	opt.SheetName = "data"
	byName, err := LoadFile(p, opt)
	require.NoError(t, err)
	assert.Equal(t, "people.xlsx (sheet: Data)", byName.Name)
	assert.Equal(t, []string{"height"}, byName.NumericColumns())
	assert.Equal(t, []float64{1.71, 1.8, 1.65}, byName.Numeric("height"))

	opt = DefaultOptions()
	opt.SheetIndex = 2
	byIndex, err := LoadFile(p, opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "height", "team"}, byIndex.Names())
}

func TestLoadFileXLSXGroupedNumbers(t *testing.T) {
	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]interface{}{"town", "population"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]interface{}{"Hamar", 31911}))
	require.NoError(t, wb.SetSheetRow(sheet, "A3", &[]interface{}{"Lom", 2234}))
	style, err := wb.NewStyle(&excelize.Style{NumFmt: 3})
	require.NoError(t, err)
	require.NoError(t, wb.SetCellStyle(sheet, "B2", "B3", style))
	p := filepath.Join(t.TempDir(), "towns.xlsx")
	require.NoError(t, wb.SaveAs(p))

	f, err := LoadFile(p, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"population"}, f.NumericColumns())
	assert.Equal(t, []float64{31911, 2234}, f.Numeric("population"))
}

func TestUngroupNumbers(t *testing.T) {
	rows := [][]string{{"a", "b", "c"}, {"1,234", "12%", "08-10-24"}}
	raw := [][]string{{"a", "b", "c"}, {"1234", "0.12", "45514"}}
	ungroupNumbers(rows, raw)
	assert.Equal(t, []string{"1234", "12%", "08-10-24"}, rows[1])
}

func TestLoadFileXLSXMissingSheet(t *testing.T) {
	p := writeWorkbook(t)
	opt := DefaultOptions()
	opt.SheetName = "Summary"
	_, err := LoadFile(p, opt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets: Notes, Data")
}
