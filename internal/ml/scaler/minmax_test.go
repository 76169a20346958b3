package scaler

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fields = []string{"ndvi", "temperature", "humidity"}

func fitted(t *testing.T) *State {
	t.Helper()
	s, err := Fit([][]float64{
		{0.3, 15, 30},
		{0.9, 35, 90},
		{0.6, 25, math.NaN()},
	}, fields)
	require.NoError(t, err)
	return s
}

func TestFit(t *testing.T) {
	s := fitted(t)
	assert.Equal(t, fields, s.Fields)
	assert.Equal(t, []float64{0.3, 15, 30}, s.Min)
	assert.Equal(t, []float64{0.9, 35, 90}, s.Max)
	assert.Equal(t, [2]float64{0, 1}, s.FeatureRange)
}

func TestFit_Errors(t *testing.T) {
	_, err := Fit(nil, fields)
	assert.Error(t, err)

	_, err = Fit([][]float64{{1, 2}}, fields)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Fit([][]float64{{1, math.NaN()}}, []string{"a", "b"})
	assert.ErrorContains(t, err, "column b has no values")
}

func TestTransformRow(t *testing.T) {
	s := fitted(t)
	out, err := s.TransformRow([]float64{0.6, 25, 60})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5}, out, 1e-12)

	// Values outside the fitted range are not clipped.
	out, err = s.TransformRow([]float64{0, 45, 30})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-0.5, 1.5, 0}, out, 1e-12)
}

func TestTransformRow_ShapeMismatch(t *testing.T) {
	s := fitted(t)
	_, err := s.TransformRow([]float64{1, 2})
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "got 2 columns, expected 3")
}

func TestTransform_ConstantColumn(t *testing.T) {
	s, err := Fit([][]float64{{5, 1}, {5, 2}}, []string{"a", "b"})
	require.NoError(t, err)

	out, err := s.Transform([][]float64{{5, 1}, {7, 2}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0}, {2, 1}}, out)
}

func TestProject_ReordersColumns(t *testing.T) {
	s := fitted(t)
	p, err := s.Project([]string{"humidity", "ndvi"})
	require.NoError(t, err)

	assert.Equal(t, []float64{30, 0.3}, p.Min)
	assert.Equal(t, []float64{90, 0.9}, p.Max)

	out, err := p.TransformRow([]float64{60, 0.9})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 1}, out, 1e-12)

	_, err = s.Project([]string{"soil_moisture"})
	assert.ErrorContains(t, err, "soil_moisture was not fit")
}

func TestState_JSONRoundTrip(t *testing.T) {
	s := fitted(t)
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var back State
	require.NoError(t, json.Unmarshal(raw, &back))
	require.NoError(t, back.Validate())
	assert.Equal(t, *s, back)
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&State{}).Validate())
	assert.Error(t, (&State{Fields: []string{"a"}, Min: []float64{0}}).Validate())
	assert.Error(t, (&State{Fields: []string{"a"}, Min: []float64{0}, Max: []float64{1}}).Validate())
}
