package service

import (
	"fmt"
	"slices"

	"github.com/namitjain73/IPEC-Hackethon/internal/dataset"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	"github.com/namitjain73/IPEC-Hackethon/internal/ml"
	"github.com/namitjain73/IPEC-Hackethon/internal/ml/ensemble"
	"github.com/namitjain73/IPEC-Hackethon/internal/ml/metrics"
	"github.com/namitjain73/IPEC-Hackethon/internal/ml/scaler"
	"github.com/namitjain73/IPEC-Hackethon/internal/ml/split"
)

// TrainerConfig holds the hyperparameters of all three models.
type TrainerConfig struct {
	NDVI     ensemble.BoostConfig
	Risk     ensemble.BoostConfig
	Change   ensemble.ForestConfig
	TestSize float64
	Seed     uint64
}

// DefaultTrainerConfig returns the production hyperparameters.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		NDVI: ensemble.BoostConfig{
			Rounds:          200,
			MaxDepth:        6,
			LearningRate:    0.05,
			Subsample:       0.8,
			ColsampleByTree: 0.8,
			Lambda:          1,
			MinChildWeight:  1,
			Seed:            42,
		},
		Change: ensemble.ForestConfig{
			Trees:           150,
			MaxDepth:        12,
			MinSamplesSplit: 5,
			MinSamplesLeaf:  2,
			Balanced:        true,
			Seed:            42,
		},
		Risk: ensemble.BoostConfig{
			Rounds:          150,
			MaxDepth:        8,
			LearningRate:    0.05,
			Subsample:       0.8,
			ColsampleByTree: 0.8,
			Lambda:          1,
			MinChildWeight:  1,
			Seed:            42,
		},
		TestSize: 0.2,
		Seed:     42,
	}
}

// ModelSummary describes one fitted model.
type ModelSummary struct {
	Name      string
	Kind      string
	TrainRows int
	TestRows  int
}

// TrainingResult is the output of Trainer.Train.
type TrainingResult struct {
	Registry *Registry
	Metrics  model.TrainingMetrics
	Models   []ModelSummary
}

// Trainer fits the scaler and the three models from one table.
type Trainer struct {
	cfg TrainerConfig
}

// NewTrainer creates a Trainer.
func NewTrainer(cfg TrainerConfig) *Trainer {
	return &Trainer{cfg: cfg}
}

// Train fits one scaler over the union of task fields, then fits and
// evaluates each model on its own projection of the table. Any fit failure
// aborts the run.
func (t *Trainer) Train(tbl *dataset.Table) (*TrainingResult, error) {
	all, err := tbl.Matrix(feature.ScalerFields())
	if err != nil {
		return nil, fmt.Errorf("scaler input: %w", err)
	}
	state, err := scaler.Fit(all, feature.ScalerFields())
	if err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}

	res := &TrainingResult{Registry: &Registry{Scaler: state}}

	ndvi, ndviMetrics, summary, err := t.trainNDVI(tbl, state)
	if err != nil {
		return nil, err
	}
	res.Registry.NDVI = ndvi
	res.Metrics.NDVIPredictor = ndviMetrics
	res.Models = append(res.Models, summary)

	change, changeMetrics, summary, err := t.trainClassifier(tbl, state, feature.TaskChange, metrics.Binary,
		func(x [][]float64, y []int) (ml.Classifier, error) {
			return ensemble.FitRandomForest(x, y, 2, t.forestSeed(t.cfg.Change))
		})
	if err != nil {
		return nil, err
	}
	res.Registry.Change = change
	res.Metrics.ChangeDetector = changeMetrics
	summary.Kind = ml.KindRandomForest
	res.Models = append(res.Models, summary)

	risk, riskMetrics, summary, err := t.trainClassifier(tbl, state, feature.TaskRisk, metrics.Weighted,
		func(x [][]float64, y []int) (ml.Classifier, error) {
			return ensemble.FitBoostedClassifier(x, y, 3, t.boostSeed(t.cfg.Risk))
		})
	if err != nil {
		return nil, err
	}
	res.Registry.Risk = risk
	res.Metrics.RiskClassifier = riskMetrics
	summary.Kind = ml.KindBoostedClassifier
	res.Models = append(res.Models, summary)

	return res, nil
}

func (t *Trainer) trainNDVI(tbl *dataset.Table, state *scaler.State) (ml.Regressor, model.RegressionMetrics, ModelSummary, error) {
	task := feature.TaskNDVI
	summary := ModelSummary{Name: task.ModelName(), Kind: ml.KindBoostedRegressor}

	x, y, err := t.scaledProjection(tbl, state, task)
	if err != nil {
		return nil, model.RegressionMetrics{}, summary, err
	}
	idx, err := split.Random(len(x), t.cfg.TestSize, t.cfg.Seed)
	if err != nil {
		return nil, model.RegressionMetrics{}, summary, fmt.Errorf("%s: %w", task.ModelName(), err)
	}
	summary.TrainRows, summary.TestRows = len(idx.Train), len(idx.Test)

	m, err := ensemble.FitBoostedRegressor(pick(x, idx.Train), pick(y, idx.Train), t.boostSeed(t.cfg.NDVI))
	if err != nil {
		return nil, model.RegressionMetrics{}, summary, fmt.Errorf("fit %s: %w", task.ModelName(), err)
	}

	yTrue := pick(y, idx.Test)
	yPred := make([]float64, len(idx.Test))
	for i, row := range pick(x, idx.Test) {
		if yPred[i], err = m.Predict(row); err != nil {
			return nil, model.RegressionMetrics{}, summary, fmt.Errorf("evaluate %s: %w", task.ModelName(), err)
		}
	}
	mets, err := metrics.Regression(yTrue, yPred)
	if err != nil {
		return nil, model.RegressionMetrics{}, summary, fmt.Errorf("evaluate %s: %w", task.ModelName(), err)
	}
	return m, mets, summary, nil
}

func (t *Trainer) trainClassifier(
	tbl *dataset.Table,
	state *scaler.State,
	task feature.Task,
	avg metrics.Average,
	fit func(x [][]float64, y []int) (ml.Classifier, error),
) (ml.Classifier, model.ClassificationMetrics, ModelSummary, error) {
	summary := ModelSummary{Name: task.ModelName()}

	x, yf, err := t.scaledProjection(tbl, state, task)
	if err != nil {
		return nil, model.ClassificationMetrics{}, summary, err
	}
	y, err := dataset.Labels(yf)
	if err != nil {
		return nil, model.ClassificationMetrics{}, summary, fmt.Errorf("%s: %w", task.ModelName(), err)
	}
	idx, err := split.Stratified(y, t.cfg.TestSize, t.cfg.Seed)
	if err != nil {
		return nil, model.ClassificationMetrics{}, summary, fmt.Errorf("%s: %w", task.ModelName(), err)
	}
	summary.TrainRows, summary.TestRows = len(idx.Train), len(idx.Test)

	c, err := fit(pick(x, idx.Train), pick(y, idx.Train))
	if err != nil {
		return nil, model.ClassificationMetrics{}, summary, fmt.Errorf("fit %s: %w", task.ModelName(), err)
	}

	yTrue := pick(y, idx.Test)
	yPred := make([]int, len(idx.Test))
	for i, row := range pick(x, idx.Test) {
		proba, err := c.PredictProba(row)
		if err != nil {
			return nil, model.ClassificationMetrics{}, summary, fmt.Errorf("evaluate %s: %w", task.ModelName(), err)
		}
		yPred[i] = argmaxClass(proba)
	}
	mets, err := metrics.Classification(yTrue, yPred, avg)
	if err != nil {
		return nil, model.ClassificationMetrics{}, summary, fmt.Errorf("evaluate %s: %w", task.ModelName(), err)
	}
	return c, mets, summary, nil
}

func (t *Trainer) scaledProjection(tbl *dataset.Table, state *scaler.State, task feature.Task) ([][]float64, []float64, error) {
	x, y, _, err := tbl.Project(task.Fields(), task.Target())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", task.ModelName(), err)
	}
	if len(x) == 0 {
		return nil, nil, fmt.Errorf("%s: no complete rows to train on", task.ModelName())
	}
	proj, err := state.Project(task.Fields())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", task.ModelName(), err)
	}
	scaled, err := proj.Transform(x)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", task.ModelName(), err)
	}
	return scaled, y, nil
}

func (t *Trainer) boostSeed(c ensemble.BoostConfig) ensemble.BoostConfig {
	if c.Seed == 0 {
		c.Seed = t.cfg.Seed
	}
	return c
}

func (t *Trainer) forestSeed(c ensemble.ForestConfig) ensemble.ForestConfig {
	if c.Seed == 0 {
		c.Seed = t.cfg.Seed
	}
	return c
}

// FeatureImportance ranks the inputs of the two classifiers, most important
// first. Models that do not expose importances are skipped.
func FeatureImportance(reg *Registry) map[string][]model.FeatureImportance {
	out := map[string][]model.FeatureImportance{}
	for _, m := range []struct {
		task  feature.Task
		model any
	}{
		{feature.TaskChange, reg.Change},
		{feature.TaskRisk, reg.Risk},
	} {
		imp, ok := m.model.(ml.Importancer)
		if !ok || m.model == nil {
			continue
		}
		values := imp.FeatureImportances()
		fields := m.task.Fields()
		ranked := make([]model.FeatureImportance, 0, len(fields))
		for i, f := range fields {
			if i < len(values) {
				ranked = append(ranked, model.FeatureImportance{Feature: f, Importance: values[i]})
			}
		}
		slices.SortStableFunc(ranked, func(a, b model.FeatureImportance) int {
			switch {
			case a.Importance > b.Importance:
				return -1
			case a.Importance < b.Importance:
				return 1
			default:
				return 0
			}
		})
		out[m.task.ModelName()] = ranked
	}
	return out
}

func argmaxClass(proba []float64) int {
	best := 0
	for i, p := range proba {
		if p > proba[best] {
			best = i
		}
	}
	return best
}

func pick[T any](s []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = s[j]
	}
	return out
}
