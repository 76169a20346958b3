package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
	"github.com/namitjain73/IPEC-Hackethon/internal/ml"
	"github.com/namitjain73/IPEC-Hackethon/internal/ml/scaler"
)

// Registry holds the shared scaler and the three models. Any member may be
// nil when its artifact could not be loaded.
type Registry struct {
	Scaler *scaler.State
	NDVI   ml.Regressor
	Change ml.Classifier
	Risk   ml.Classifier
}

// Loaded returns the names of the loaded models in canonical order.
func (r *Registry) Loaded() []string {
	loaded := make([]string, 0, 3)
	if r.NDVI != nil {
		loaded = append(loaded, feature.ModelNDVI)
	}
	if r.Change != nil {
		loaded = append(loaded, feature.ModelChange)
	}
	if r.Risk != nil {
		loaded = append(loaded, feature.ModelRisk)
	}
	return loaded
}

// LoadRegistry reads every artifact it can. Missing or unreadable artifacts
// leave their member nil and are reported in problems, keyed by artifact
// name; they never fail the load as a whole.
func LoadRegistry(ctx context.Context, store port.ArtifactStore) (*Registry, map[string]error) {
	reg := &Registry{}
	problems := map[string]error{}

	if raw, err := store.Load(ctx, port.ArtifactScaler); err != nil {
		problems[port.ArtifactScaler] = err
	} else {
		var s scaler.State
		if err := json.Unmarshal(raw, &s); err != nil {
			problems[port.ArtifactScaler] = fmt.Errorf("decode scaler: %w", err)
		} else if err := s.Validate(); err != nil {
			problems[port.ArtifactScaler] = err
		} else {
			reg.Scaler = &s
		}
	}

	if raw, err := store.Load(ctx, feature.ModelNDVI); err != nil {
		problems[feature.ModelNDVI] = err
	} else if m, _, err := ml.DecodeRegressor(raw); err != nil {
		problems[feature.ModelNDVI] = err
	} else {
		reg.NDVI = m
	}

	for name, dst := range map[string]*ml.Classifier{
		feature.ModelChange: &reg.Change,
		feature.ModelRisk:   &reg.Risk,
	} {
		raw, err := store.Load(ctx, name)
		if err != nil {
			problems[name] = err
			continue
		}
		c, _, err := ml.DecodeClassifier(raw)
		if err != nil {
			problems[name] = err
			continue
		}
		*dst = c
	}

	return reg, problems
}

// SaveRegistry writes the scaler, every model and the metrics, overwriting
// whatever the store held.
func SaveRegistry(ctx context.Context, store port.ArtifactStore, reg *Registry, metrics model.TrainingMetrics) error {
	if reg.Scaler == nil || reg.NDVI == nil || reg.Change == nil || reg.Risk == nil {
		return errors.New("registry is incomplete")
	}

	raw, err := json.MarshalIndent(reg.Scaler, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scaler: %w", err)
	}
	if err := store.Save(ctx, port.ArtifactScaler, raw); err != nil {
		return fmt.Errorf("save scaler: %w", err)
	}

	models := []struct {
		task  feature.Task
		model any
	}{
		{feature.TaskNDVI, reg.NDVI},
		{feature.TaskChange, reg.Change},
		{feature.TaskRisk, reg.Risk},
	}
	for _, m := range models {
		raw, err := ml.Encode(m.model, m.task.Fields())
		if err != nil {
			return fmt.Errorf("encode %s: %w", m.task.ModelName(), err)
		}
		if err := store.Save(ctx, m.task.ModelName(), raw); err != nil {
			return fmt.Errorf("save %s: %w", m.task.ModelName(), err)
		}
	}

	return SaveJSON(ctx, store, port.ArtifactMetrics, metrics)
}

// SaveJSON stores v as an indented JSON artifact.
func SaveJSON(ctx context.Context, store port.ArtifactStore, name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := store.Save(ctx, name, raw); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// LoadMetrics reads metrics.json.
func LoadMetrics(ctx context.Context, store port.ArtifactStore) (model.TrainingMetrics, error) {
	var m model.TrainingMetrics
	raw, err := store.Load(ctx, port.ArtifactMetrics)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("decode metrics: %w", err)
	}
	return m, nil
}
