package model

import (
	"time"

	"github.com/google/uuid"
)

// RegressionMetrics summarise a regressor on the held-out split.
type RegressionMetrics struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2_score"`
}

// ClassificationMetrics summarise a classifier on the held-out split. Rows
// and columns of ConfusionMatrix follow Labels.
type ClassificationMetrics struct {
	Labels          []int   `json:"labels"`
	ConfusionMatrix [][]int `json:"confusion_matrix"`
	Accuracy        float64 `json:"accuracy"`
	Precision       float64 `json:"precision"`
	Recall          float64 `json:"recall"`
	F1              float64 `json:"f1_score"`
}

// TrainingMetrics is the content of metrics.json.
type TrainingMetrics struct {
	NDVIPredictor  RegressionMetrics     `json:"ndvi_predictor"`
	ChangeDetector ClassificationMetrics `json:"change_detector"`
	RiskClassifier ClassificationMetrics `json:"risk_classifier"`
}

// FeatureImportance is one feature's normalised contribution to a model.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// EvaluationReport is the content of evaluation_report.json. Metrics is nil
// when metrics.json was never written.
type EvaluationReport struct {
	Metrics           *TrainingMetrics               `json:"metrics"`
	FeatureImportance map[string][]FeatureImportance `json:"feature_importance"`
}

// TrainingRun records one execution of the training pipeline.
type TrainingRun struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	ArtifactDir string
	Metrics     TrainingMetrics
	Seed        uint64
	Samples     int
	ID          uuid.UUID
}

// Duration returns how long the run took.
func (r TrainingRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
