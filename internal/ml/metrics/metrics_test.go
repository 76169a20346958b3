package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegression(t *testing.T) {
	m, err := Regression([]float64{3, -0.5, 2, 7}, []float64{2.5, 0.0, 2, 8})
	require.NoError(t, err)

	assert.InDelta(t, 0.375, m.MSE, 1e-12)
	assert.InDelta(t, math.Sqrt(0.375), m.RMSE, 1e-12)
	assert.InDelta(t, 0.5, m.MAE, 1e-12)
	assert.InDelta(t, 0.9486081370449679, m.R2, 1e-12)
}

func TestRegression_ConstantTruth(t *testing.T) {
	m, err := Regression([]float64{1, 1}, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.R2)

	m, err = Regression([]float64{1, 1}, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.R2)
}

func TestRegression_Errors(t *testing.T) {
	_, err := Regression(nil, nil)
	assert.Error(t, err)
	_, err = Regression([]float64{1}, []float64{1, 2})
	assert.Error(t, err)
}

func TestClassification_Binary(t *testing.T) {
	yTrue := []int{0, 1, 1, 0, 1, 0}
	yPred := []int{0, 1, 0, 0, 1, 1}

	m, err := Classification(yTrue, yPred, Binary)
	require.NoError(t, err)

	assert.InDelta(t, 4.0/6.0, m.Accuracy, 1e-12)
	assert.InDelta(t, 2.0/3.0, m.Precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, m.Recall, 1e-12)
	assert.InDelta(t, 2.0/3.0, m.F1, 1e-12)
	assert.Equal(t, []int{0, 1}, m.Labels)
	assert.Equal(t, [][]int{{2, 1}, {1, 2}}, m.ConfusionMatrix)
}

func TestClassification_BinaryZeroDivision(t *testing.T) {
	m, err := Classification([]int{0, 0, 0}, []int{0, 0, 0}, Binary)
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.Accuracy)
	assert.Zero(t, m.Precision)
	assert.Zero(t, m.Recall)
	assert.Zero(t, m.F1)
	assert.Equal(t, [][]int{{3}}, m.ConfusionMatrix)

	m, err = Classification([]int{1, 0}, []int{0, 0}, Binary)
	require.NoError(t, err)
	assert.Zero(t, m.Precision)
	assert.Zero(t, m.Recall)
}

func TestClassification_Weighted(t *testing.T) {
	yTrue := []int{0, 1, 2, 0, 1, 2}
	yPred := []int{0, 2, 1, 0, 0, 1}

	m, err := Classification(yTrue, yPred, Weighted)
	require.NoError(t, err)

	assert.InDelta(t, 2.0/6.0, m.Accuracy, 1e-12)
	// class 0: p=2/3 r=1 f=0.8; classes 1 and 2 score 0; equal support of 2.
	assert.InDelta(t, (2.0/3.0)/3.0, m.Precision, 1e-12)
	assert.InDelta(t, 1.0/3.0, m.Recall, 1e-12)
	assert.InDelta(t, 0.8/3.0, m.F1, 1e-12)
	assert.Equal(t, [][]int{{2, 0, 0}, {1, 0, 1}, {0, 2, 0}}, m.ConfusionMatrix)
}

func TestClassification_LabelsFromPredictionsToo(t *testing.T) {
	m, err := Classification([]int{0, 0}, []int{0, 2}, Weighted)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2}, m.Labels)
	assert.Equal(t, [][]int{{1, 1}, {0, 0}}, m.ConfusionMatrix)
	// class 0: p=1 r=0.5 f=2/3, support 2; class 2 has no support.
	assert.InDelta(t, 1.0, m.Precision, 1e-12)
	assert.InDelta(t, 0.5, m.Recall, 1e-12)
	assert.InDelta(t, 2.0/3.0, m.F1, 1e-12)
}
