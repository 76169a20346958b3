// Package metrics scores fitted models on held-out data.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
)

// Regression computes mse, rmse, mae and the coefficient of determination.
// A constant y scores r2 = 1 when predicted exactly and 0 otherwise.
func Regression(yTrue, yPred []float64) (model.RegressionMetrics, error) {
	if err := sameLength(len(yTrue), len(yPred)); err != nil {
		return model.RegressionMetrics{}, err
	}

	var sse, sae float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sse += d * d
		sae += math.Abs(d)
	}
	n := float64(len(yTrue))

	mean := stat.Mean(yTrue, nil)
	var sst float64
	for _, v := range yTrue {
		sst += (v - mean) * (v - mean)
	}

	var r2 float64
	switch {
	case sst > 0:
		r2 = 1 - sse/sst
	case sse == 0:
		r2 = 1
	}

	mse := sse / n
	return model.RegressionMetrics{
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		MAE:  sae / n,
		R2:   r2,
	}, nil
}

func sameLength(a, b int) error {
	if a == 0 {
		return fmt.Errorf("metrics: no samples")
	}
	if a != b {
		return fmt.Errorf("metrics: %d true values but %d predictions", a, b)
	}
	return nil
}
