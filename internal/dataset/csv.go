package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
)

const (
	dateColumn = "date"
	dateLayout = "2006-01-02"
)

// WriteCSV writes the table with a leading date column. Missing cells are
// left empty.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cols := t.Columns()
	if err := cw.Write(append([]string{dateColumn}, cols...)); err != nil {
		return fmt.Errorf("dataset: write header: %w", err)
	}

	record := make([]string, len(cols)+1)
	for i, d := range t.Dates {
		record[0] = d.Format(dateLayout)
		for j, name := range cols {
			c, _ := t.Column(name)
			if IsMissing(c[i]) {
				record[j+1] = ""
			} else {
				record[j+1] = strconv.FormatFloat(c[i], 'g', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("dataset: write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV or an equivalent export with a
// date column. Boolean cells read as 1 or 0. When the derived NDVI columns
// are absent they are computed from ndvi.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	dateIdx := -1
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if header[i] == dateColumn {
			dateIdx = i
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("dataset: csv has no %s column", dateColumn)
	}

	var dates []time.Time
	values := make([][]float64, len(header))
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		for i, cell := range rec {
			if i == dateIdx {
				d, err := time.Parse(dateLayout, strings.TrimSpace(cell))
				if err != nil {
					return nil, fmt.Errorf("dataset: line %d: %w", line, err)
				}
				dates = append(dates, d)
				continue
			}
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("dataset: line %d column %s: %w", line, header[i], err)
			}
			values[i] = append(values[i], v)
		}
	}

	t := NewTable(dates)
	for i, name := range header {
		if i == dateIdx {
			continue
		}
		if err := t.Set(name, values[i]); err != nil {
			return nil, err
		}
	}

	if _, ok := t.Column(feature.NDVIChange); !ok {
		if err := Derive(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "nan", "na":
		return Missing, nil
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	return strconv.ParseFloat(cell, 64)
}
