// Package scaler holds the min-max normalisation shared by every task.
package scaler

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// ErrShapeMismatch is returned when rows do not match the fitted columns.
var ErrShapeMismatch = errors.New("scaler: shape mismatch")

// State is a fitted min-max transform. Column i of every transformed row
// must hold Fields[i].
type State struct {
	Fields       []string   `json:"fields"`
	Min          []float64  `json:"min"`
	Max          []float64  `json:"max"`
	FeatureRange [2]float64 `json:"feature_range"`
}

// Fit learns per-column min and max. NaN cells are ignored; a column with
// no finite value is an error.
func Fit(x [][]float64, fields []string) (*State, error) {
	if len(x) == 0 {
		return nil, errors.New("scaler: fit on empty matrix")
	}
	cols := len(fields)
	s := &State{
		Fields:       slices.Clone(fields),
		Min:          make([]float64, cols),
		Max:          make([]float64, cols),
		FeatureRange: [2]float64{0, 1},
	}

	col := make([]float64, 0, len(x))
	for j := 0; j < cols; j++ {
		col = col[:0]
		for i, row := range x {
			if len(row) != cols {
				return nil, fmt.Errorf("%w: row %d has %d columns, fields list %d", ErrShapeMismatch, i, len(row), cols)
			}
			if !math.IsNaN(row[j]) {
				col = append(col, row[j])
			}
		}
		if len(col) == 0 {
			return nil, fmt.Errorf("scaler: column %s has no values", fields[j])
		}
		s.Min[j] = floats.Min(col)
		s.Max[j] = floats.Max(col)
	}
	return s, nil
}

// Project returns a state over fields, in that order, reusing the fitted
// bounds. Every field must have been fit.
func (s *State) Project(fields []string) (*State, error) {
	out := &State{
		Fields:       slices.Clone(fields),
		Min:          make([]float64, len(fields)),
		Max:          make([]float64, len(fields)),
		FeatureRange: s.FeatureRange,
	}
	for i, f := range fields {
		j := slices.Index(s.Fields, f)
		if j < 0 {
			return nil, fmt.Errorf("scaler: field %s was not fit", f)
		}
		out.Min[i] = s.Min[j]
		out.Max[i] = s.Max[j]
	}
	return out, nil
}

// TransformRow scales one row into a new slice.
func (s *State) TransformRow(row []float64) ([]float64, error) {
	if len(row) != len(s.Fields) {
		return nil, fmt.Errorf("%w: got %d columns, expected %d (%v)", ErrShapeMismatch, len(row), len(s.Fields), s.Fields)
	}
	lo, hi := s.FeatureRange[0], s.FeatureRange[1]
	out := make([]float64, len(row))
	for j, v := range row {
		span := s.Max[j] - s.Min[j]
		if span == 0 {
			span = 1
		}
		out[j] = (v-s.Min[j])/span*(hi-lo) + lo
	}
	return out, nil
}

// Transform scales every row of x.
func (s *State) Transform(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled, err := s.TransformRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}

// Validate checks a decoded state is internally consistent.
func (s *State) Validate() error {
	n := len(s.Fields)
	if n == 0 {
		return errors.New("scaler: state has no fields")
	}
	if len(s.Min) != n || len(s.Max) != n {
		return fmt.Errorf("scaler: %d fields but %d min and %d max values", n, len(s.Min), len(s.Max))
	}
	if s.FeatureRange[1] <= s.FeatureRange[0] {
		return fmt.Errorf("scaler: invalid feature range %v", s.FeatureRange)
	}
	return nil
}
