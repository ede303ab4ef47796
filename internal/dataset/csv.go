package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvLoader) Load(path string, opt Options) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	fr, err := ReadCSV(f, filepath.Base(path), opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return fr, nil
}

// ReadCSV reads delimited text with a header line. name is used for delimiter sniffing
// (".tsv" means tab) and becomes the frame name.
func ReadCSV(r io.Reader, name string, opt Options) (*Frame, error) {
	br := bufio.NewReader(r)
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name, br)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv: no header")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	opt.logger().Debug("csv read", "name", name, "delimiter", string(delim), "rows", len(rows), "cols", len(header))
	fr, err := FromRecords(header, rows, opt)
	if err != nil {
		return nil, err
	}
	fr.Name = name
	return fr, nil
}

// sniffDelimiter picks the most frequent candidate separator on the header line.
func sniffDelimiter(name string, br *bufio.Reader) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	peek, _ := br.Peek(4096)
	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestN := ',', 0
	for _, c := range []rune{',', ';', '\t'} {
		if n := strings.Count(line, string(c)); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
