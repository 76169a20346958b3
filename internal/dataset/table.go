// Package dataset builds the tabular training data: a daily synthetic
// satellite series, CSV import/export and per-task projection into X and y.
package dataset

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Missing marks an absent cell.
var Missing = math.NaN()

// IsMissing reports whether v is an absent cell.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Table is a column-oriented frame with one row per date.
type Table struct {
	Dates   []time.Time
	columns map[string][]float64
	order   []string
}

// NewTable returns an empty table over dates.
func NewTable(dates []time.Time) *Table {
	return &Table{Dates: dates, columns: map[string][]float64{}}
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	return len(t.Dates)
}

// Columns returns column names in insertion order.
func (t *Table) Columns() []string {
	return slices.Clone(t.order)
}

// Set adds or replaces a column.
func (t *Table) Set(name string, values []float64) error {
	if len(values) != t.Rows() {
		return fmt.Errorf("dataset: column %s has %d values, table has %d rows", name, len(values), t.Rows())
	}
	if _, ok := t.columns[name]; !ok {
		t.order = append(t.order, name)
	}
	t.columns[name] = values
	return nil
}

// Column returns the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	c, ok := t.columns[name]
	return c, ok
}

// Matrix returns the named columns as rows, without dropping missing cells.
func (t *Table) Matrix(fields []string) ([][]float64, error) {
	cols, err := t.lookup(fields)
	if err != nil {
		return nil, err
	}
	x := make([][]float64, t.Rows())
	for i := range x {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = c[i]
		}
		x[i] = row
	}
	return x, nil
}

// Project selects fields and target, drops rows with any missing value and
// returns the aligned X and y along with the kept row indices.
func (t *Table) Project(fields []string, target string) (x [][]float64, y []float64, rows []int, err error) {
	cols, err := t.lookup(fields)
	if err != nil {
		return nil, nil, nil, err
	}
	targetCol, ok := t.columns[target]
	if !ok {
		return nil, nil, nil, fmt.Errorf("dataset: missing target column %s", target)
	}

	for i := 0; i < t.Rows(); i++ {
		if IsMissing(targetCol[i]) {
			continue
		}
		row := make([]float64, len(cols))
		complete := true
		for j, c := range cols {
			if IsMissing(c[i]) {
				complete = false
				break
			}
			row[j] = c[i]
		}
		if !complete {
			continue
		}
		x = append(x, row)
		y = append(y, targetCol[i])
		rows = append(rows, i)
	}
	return x, y, rows, nil
}

func (t *Table) lookup(fields []string) ([][]float64, error) {
	cols := make([][]float64, len(fields))
	var missing []string
	for j, f := range fields {
		c, ok := t.columns[f]
		if !ok {
			missing = append(missing, f)
			continue
		}
		cols[j] = c
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("dataset: missing columns %v", missing)
	}
	return cols, nil
}

// Labels converts a projected target into integer class labels.
func Labels(y []float64) ([]int, error) {
	out := make([]int, len(y))
	for i, v := range y {
		if v != math.Trunc(v) || v < 0 {
			return nil, fmt.Errorf("dataset: target %v at row %d is not a class label", v, i)
		}
		out[i] = int(v)
	}
	return out, nil
}
