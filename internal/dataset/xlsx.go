package dataset

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Load reads the selected sheet; the first row is the header.
func (xlsxLoader) Load(path string, opt Options) (*Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	sheet, err := pickSheet(sheets, opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q in %s is empty", sheet, filepath.Base(path))
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	ungroupNumbers(rows, raw)
	opt.logger().Debug("xlsx read", "file", filepath.Base(path), "sheet", sheet, "rows", len(rows)-1)
	fr, err := FromRecords(rows[0], rows[1:], opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	fr.Name = filepath.Base(path)
	if opt.SheetName != "" {
		fr.Name = fmt.Sprintf("%s (sheet: %s)", fr.Name, sheet)
	}
	return fr, nil
}

func pickSheet(sheets []string, name string, index int) (string, error) {
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found.\nAvailable sheets: %s", name, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", index, len(sheets))
	}
	return sheets[index-1], nil
}

// ungroupNumbers swaps in the stored value for cells whose display text is a number with
// digit grouping ("1,234"). Dates, percentages and currency keep their display text.
func ungroupNumbers(rows, raw [][]string) {
	for i := 1; i < len(rows) && i < len(raw); i++ {
		for j, v := range rows[i] {
			if j >= len(raw[i]) || v == raw[i][j] {
				continue
			}
			if _, err := strconv.ParseFloat(raw[i][j], 64); err != nil {
				continue
			}
			if grouped(v) {
				rows[i][j] = raw[i][j]
			}
		}
	}
}

func grouped(s string) bool {
	plain := strings.NewReplacer(",", "", " ", "", "\u00a0", "", "'", "").Replace(strings.TrimSpace(s))
	if plain == s {
		return false
	}
	_, err := strconv.ParseFloat(plain, 64)
	return err == nil
}
