// Package ml defines the model contracts the inference engine depends on and
// the artifact envelope models are persisted in.
package ml

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/namitjain73/IPEC-Hackethon/internal/ml/ensemble"
)

// Regressor predicts one value for one row.
type Regressor interface {
	Predict(x []float64) (float64, error)
	NumFeatures() int
}

// Classifier predicts a class distribution for one row.
type Classifier interface {
	PredictProba(x []float64) ([]float64, error)
	NumFeatures() int
	NumClasses() int
}

// Importancer exposes normalised per-feature importances.
type Importancer interface {
	FeatureImportances() []float64
}

// Artifact kinds.
const (
	KindBoostedRegressor  = "boosted_regressor"
	KindBoostedClassifier = "boosted_classifier"
	KindRandomForest      = "random_forest"
)

// ErrUnknownKind is returned for an envelope holding an unsupported model.
var ErrUnknownKind = errors.New("ml: unknown model kind")

// ErrInvalidModel is returned for an envelope whose trees are malformed.
var ErrInvalidModel = errors.New("ml: invalid model")

// Envelope is the persisted form of a model.
type Envelope struct {
	Kind     string          `json:"kind"`
	Features []string        `json:"features"`
	Model    json.RawMessage `json:"model"`
}

// Encode wraps a fitted ensemble with its kind and the feature names it was
// trained on.
func Encode(m any, features []string) ([]byte, error) {
	var kind string
	switch m.(type) {
	case *ensemble.BoostedRegressor:
		kind = KindBoostedRegressor
	case *ensemble.BoostedClassifier:
		kind = KindBoostedClassifier
	case *ensemble.RandomForest:
		kind = KindRandomForest
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, m)
	}
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("ml: encode %s: %w", kind, err)
	}
	return json.Marshal(Envelope{Kind: kind, Features: features, Model: body})
}

// DecodeRegressor restores a regressor envelope.
func DecodeRegressor(raw []byte) (Regressor, Envelope, error) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, env, err
	}
	if env.Kind != KindBoostedRegressor {
		return nil, env, fmt.Errorf("%w: %q is not a regressor", ErrUnknownKind, env.Kind)
	}
	var m ensemble.BoostedRegressor
	if err := json.Unmarshal(env.Model, &m); err != nil {
		return nil, env, fmt.Errorf("ml: decode %s: %w", env.Kind, err)
	}
	if err := m.Validate(); err != nil {
		return nil, env, fmt.Errorf("%w: %s: %w", ErrInvalidModel, env.Kind, err)
	}
	if err := checkFeatures(m.NumFeatures(), env.Features); err != nil {
		return nil, env, err
	}
	return &m, env, nil
}

// DecodeClassifier restores a classifier envelope.
func DecodeClassifier(raw []byte) (Classifier, Envelope, error) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, env, err
	}
	var c interface {
		Classifier
		Validate() error
	}
	switch env.Kind {
	case KindBoostedClassifier:
		var m ensemble.BoostedClassifier
		err = json.Unmarshal(env.Model, &m)
		c = &m
	case KindRandomForest:
		var m ensemble.RandomForest
		err = json.Unmarshal(env.Model, &m)
		c = &m
	default:
		return nil, env, fmt.Errorf("%w: %q is not a classifier", ErrUnknownKind, env.Kind)
	}
	if err != nil {
		return nil, env, fmt.Errorf("ml: decode %s: %w", env.Kind, err)
	}
	if err := c.Validate(); err != nil {
		return nil, env, fmt.Errorf("%w: %s: %w", ErrInvalidModel, env.Kind, err)
	}
	if err := checkFeatures(c.NumFeatures(), env.Features); err != nil {
		return nil, env, err
	}
	return c, env, nil
}

func decodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("ml: decode envelope: %w", err)
	}
	return env, nil
}

func checkFeatures(n int, names []string) error {
	if len(names) != 0 && len(names) != n {
		return fmt.Errorf("ml: model expects %d features, envelope names %d", n, len(names))
	}
	return nil
}
