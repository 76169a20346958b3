package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/dto"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func renderModels(w io.Writer, models []dto.ModelSummaryDTO) {
	t := newTable(w, "model", "kind", "train rows", "test rows")
	for _, m := range models {
		t.Append([]string{m.Name, m.Kind, strconv.Itoa(m.TrainRows), strconv.Itoa(m.TestRows)})
	}
	t.Render()
}

func renderMetrics(w io.Writer, m model.TrainingMetrics) {
	t := newTable(w, "model", "metric", "value")
	r := m.NDVIPredictor
	t.Append([]string{"ndvi_predictor", "mse", num(r.MSE)})
	t.Append([]string{"ndvi_predictor", "rmse", num(r.RMSE)})
	t.Append([]string{"ndvi_predictor", "mae", num(r.MAE)})
	t.Append([]string{"ndvi_predictor", "r2_score", num(r.R2)})
	for _, c := range []struct {
		name string
		m    model.ClassificationMetrics
	}{
		{"change_detector", m.ChangeDetector},
		{"risk_classifier", m.RiskClassifier},
	} {
		t.Append([]string{c.name, "accuracy", num(c.m.Accuracy)})
		t.Append([]string{c.name, "precision", num(c.m.Precision)})
		t.Append([]string{c.name, "recall", num(c.m.Recall)})
		t.Append([]string{c.name, "f1_score", num(c.m.F1)})
		t.Append([]string{c.name, "confusion_matrix", fmt.Sprint(c.m.ConfusionMatrix)})
	}
	t.Render()
}

func renderImportance(w io.Writer, ranked []model.FeatureImportance) {
	t := newTable(w, "feature", "importance")
	for _, f := range ranked {
		t.Append([]string{f.Feature, num(f.Importance)})
	}
	t.Render()
}

func renderRuns(w io.Writer, runs []dto.TrainModelsResponse) {
	t := newTable(w, "run", "started", "duration", "samples", "ndvi r2", "change f1", "risk accuracy")
	for _, r := range runs {
		t.Append([]string{
			r.RunID.String(),
			r.StartedAt.Format(time.RFC3339),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
			strconv.Itoa(r.Samples),
			num(r.Metrics.NDVIPredictor.R2),
			num(r.Metrics.ChangeDetector.F1),
			num(r.Metrics.RiskClassifier.Accuracy),
		})
	}
	t.Render()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
