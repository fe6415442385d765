package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// readTable reads rows of exactly cols numbers. Blank lines, lines starting
// with '#' and a non-numeric header row are skipped.
func readTable(r io.Reader, cols int) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = cols
	cr.TrimLeadingSpace = true

	var rows [][]float64
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		row := make([]float64, cols)
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				if line == 1 && len(rows) == 0 {
					row = nil
					break
				}
				return nil, fmt.Errorf("row %d column %d: %w", line, i+1, err)
			}
			row[i] = v
		}
		if row != nil {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// readTableFile reads a table from path, or from stdin when path is "-".
func readTableFile(path string, stdin io.Reader, cols int) ([][]float64, error) {
	if path == "-" {
		return readTable(stdin, cols)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readTable(f, cols)
}

// tableWriter writes CSV rows of formatted numbers.
type tableWriter struct {
	w      *csv.Writer
	record []string
}

func newTableWriter(w io.Writer, header ...string) (*tableWriter, error) {
	tw := &tableWriter{w: csv.NewWriter(w)}
	if err := tw.w.Write(header); err != nil {
		return nil, err
	}
	return tw, nil
}

// Row writes one row. Integers are written without a fractional part.
func (tw *tableWriter) Row(values ...any) error {
	tw.record = tw.record[:0]
	for _, v := range values {
		switch v := v.(type) {
		case int:
			tw.record = append(tw.record, strconv.Itoa(v))
		case float64:
			tw.record = append(tw.record, strconv.FormatFloat(v, 'g', 17, 64))
		default:
			tw.record = append(tw.record, fmt.Sprint(v))
		}
	}
	return tw.w.Write(tw.record)
}

// Flush writes buffered rows and reports any write error.
func (tw *tableWriter) Flush() error {
	tw.w.Flush()
	return tw.w.Error()
}

// parseFloats parses a comma-separated list of exactly n numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
