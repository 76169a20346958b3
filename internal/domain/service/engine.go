package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	"github.com/namitjain73/IPEC-Hackethon/internal/ml/scaler"
)

var (
	// ErrScalerNotLoaded is returned by every prediction when no scaler is loaded.
	ErrScalerNotLoaded = errors.New("scaler not loaded")

	// ErrModelNotLoaded is returned when the model a prediction needs is absent.
	ErrModelNotLoaded = errors.New("model not loaded")
)

// Engine turns loosely typed feature maps into decoded predictions. It is
// immutable after construction and safe for concurrent use.
type Engine struct {
	reg         *Registry
	projections map[feature.Task]*scaler.State
	projErr     map[feature.Task]error
	now         func() time.Time
}

// NewEngine precomputes the per-task scaler projections of reg.
func NewEngine(reg *Registry) *Engine {
	e := &Engine{
		reg:         reg,
		projections: map[feature.Task]*scaler.State{},
		projErr:     map[feature.Task]error{},
		now:         time.Now,
	}
	if reg.Scaler == nil {
		return e
	}
	for _, task := range feature.Tasks() {
		p, err := reg.Scaler.Project(task.Fields())
		if err != nil {
			e.projErr[task] = err
			continue
		}
		e.projections[task] = p
	}
	return e
}

// Loaded returns the names of the models available for prediction.
func (e *Engine) Loaded() []string {
	return e.reg.Loaded()
}

// PredictNDVI forecasts the 7-day-ahead NDVI, clamped into [0, 1]. The
// returned slice names the fields that were defaulted to 0.0.
func (e *Engine) PredictNDVI(input map[string]any) (model.NDVIForecast, []string, error) {
	if e.reg.NDVI == nil {
		return model.NDVIForecast{}, nil, fmt.Errorf("%s: %w", feature.ModelNDVI, ErrModelNotLoaded)
	}
	x, vec, defaulted, err := e.prepare(feature.TaskNDVI, input)
	if err != nil {
		return model.NDVIForecast{}, defaulted, err
	}
	raw, err := e.reg.NDVI.Predict(x)
	if err != nil {
		return model.NDVIForecast{}, defaulted, predictionError(feature.TaskNDVI, vec, err)
	}
	f, err := model.NewNDVIForecast(raw)
	if err != nil {
		return model.NDVIForecast{}, defaulted, predictionError(feature.TaskNDVI, vec, err)
	}
	return f, defaulted, nil
}

// PredictChange classifies whether vegetation loss occurred.
func (e *Engine) PredictChange(input map[string]any) (model.ChangeDetection, []string, error) {
	if e.reg.Change == nil {
		return model.ChangeDetection{}, nil, fmt.Errorf("%s: %w", feature.ModelChange, ErrModelNotLoaded)
	}
	proba, defaulted, err := e.classify(feature.TaskChange, e.reg.Change.PredictProba, input)
	if err != nil {
		return model.ChangeDetection{}, defaulted, err
	}
	c, err := model.NewChangeDetection(proba)
	if err != nil {
		return model.ChangeDetection{}, defaulted, fmt.Errorf("%s prediction failed: %w", feature.TaskChange, err)
	}
	return c, defaulted, nil
}

// PredictRisk classifies the vegetation risk level.
func (e *Engine) PredictRisk(input map[string]any) (model.RiskAssessment, []string, error) {
	if e.reg.Risk == nil {
		return model.RiskAssessment{}, nil, fmt.Errorf("%s: %w", feature.ModelRisk, ErrModelNotLoaded)
	}
	proba, defaulted, err := e.classify(feature.TaskRisk, e.reg.Risk.PredictProba, input)
	if err != nil {
		return model.RiskAssessment{}, defaulted, err
	}
	r, err := model.NewRiskAssessment(proba)
	if err != nil {
		return model.RiskAssessment{}, defaulted, fmt.Errorf("%s prediction failed: %w", feature.TaskRisk, err)
	}
	return r, defaulted, nil
}

// PredictAll runs all three predictions into one Prediction aggregate. The
// first failure fails the whole call.
func (e *Engine) PredictAll(input map[string]any) (*model.Prediction, []string, error) {
	p := model.NewPrediction(e.now())
	seen := map[string]bool{}
	var defaulted []string
	collect := func(names []string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				defaulted = append(defaulted, n)
			}
		}
	}

	ndvi, d, err := e.PredictNDVI(input)
	collect(d)
	if err != nil {
		return nil, defaulted, err
	}
	p.RecordNDVI(ndvi)

	change, d, err := e.PredictChange(input)
	collect(d)
	if err != nil {
		return nil, defaulted, err
	}
	if err := p.RecordChange(change); err != nil {
		return nil, defaulted, err
	}

	risk, d, err := e.PredictRisk(input)
	collect(d)
	if err != nil {
		return nil, defaulted, err
	}
	if err := p.RecordRisk(risk); err != nil {
		return nil, defaulted, err
	}

	return p, defaulted, nil
}

func (e *Engine) classify(task feature.Task, proba func([]float64) ([]float64, error), input map[string]any) ([]float64, []string, error) {
	x, vec, defaulted, err := e.prepare(task, input)
	if err != nil {
		return nil, defaulted, err
	}
	out, err := proba(x)
	if err != nil {
		return nil, defaulted, predictionError(task, vec, err)
	}
	return out, defaulted, nil
}

// prepare builds the task vector and scales it.
func (e *Engine) prepare(task feature.Task, input map[string]any) ([]float64, feature.Vector, []string, error) {
	if e.reg.Scaler == nil {
		return nil, feature.Vector{}, nil, ErrScalerNotLoaded
	}
	if err := e.projErr[task]; err != nil {
		return nil, feature.Vector{}, nil, fmt.Errorf("%s: scaler incompatible: %w", task, err)
	}
	vec, defaulted, err := feature.Build(task, input)
	if err != nil {
		return nil, vec, nil, fmt.Errorf("%s: %w", task, err)
	}
	x, err := e.projections[task].TransformRow(vec.Values)
	if err != nil {
		return nil, vec, defaulted, predictionError(task, vec, err)
	}
	return x, vec, defaulted, nil
}

func predictionError(task feature.Task, vec feature.Vector, err error) error {
	rows, cols := vec.Shape()
	return fmt.Errorf("%s prediction failed for input shape (%d, %d) with fields %v: %w", task, rows, cols, vec.Fields, err)
}
