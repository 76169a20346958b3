package ensemble

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/namitjain73/IPEC-Hackethon/internal/ml/tree"
)

// BoostConfig holds gradient boosting hyperparameters.
type BoostConfig struct {
	Rounds          int
	MaxDepth        int
	LearningRate    float64
	Subsample       float64
	ColsampleByTree float64
	Lambda          float64
	Gamma           float64
	MinChildWeight  float64
	Seed            uint64
}

func (c BoostConfig) treeParams() tree.GradientParams {
	return tree.GradientParams{
		MaxDepth:       c.MaxDepth,
		Lambda:         c.Lambda,
		Gamma:          c.Gamma,
		MinChildWeight: c.MinChildWeight,
		Eta:            c.LearningRate,
	}
}

func (c BoostConfig) validate() error {
	if c.Rounds <= 0 {
		return fmt.Errorf("ensemble: rounds must be positive, got %d", c.Rounds)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("ensemble: learning rate must be positive, got %v", c.LearningRate)
	}
	if c.Subsample <= 0 || c.Subsample > 1 || c.ColsampleByTree <= 0 || c.ColsampleByTree > 1 {
		return fmt.Errorf("ensemble: sampling ratios must be in (0,1], got %v and %v", c.Subsample, c.ColsampleByTree)
	}
	return nil
}

// BoostedRegressor is an additive ensemble of gradient trees fit to squared error.
type BoostedRegressor struct {
	Trees     []*tree.Tree `json:"trees"`
	BaseScore float64      `json:"base_score"`
	Features  int          `json:"n_features"`
}

// FitBoostedRegressor fits a squared-error boosted ensemble. The base score
// is the target mean.
func FitBoostedRegressor(x [][]float64, y []float64, cfg BoostConfig) (*BoostedRegressor, error) {
	p, err := validate(x, len(y))
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	n := len(x)
	rng := newRNG(cfg.Seed)
	m := &BoostedRegressor{BaseScore: stat.Mean(y, nil), Features: p}

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = m.BaseScore
	}
	grad := make([]float64, n)
	hess := make([]float64, n)
	for i := range hess {
		hess[i] = 1
	}

	for round := 0; round < cfg.Rounds; round++ {
		floats.SubTo(grad, pred, y)
		rows := subsampleRows(rng, n, cfg.Subsample)
		cols := sampleColumns(rng, p, cfg.ColsampleByTree)

		t, err := tree.GrowGradient(x, grad, hess, rows, cols, p, cfg.treeParams())
		if err != nil {
			return nil, fmt.Errorf("ensemble: round %d: %w", round, err)
		}
		m.Trees = append(m.Trees, t)

		for i, row := range x {
			v, err := leafValue(t, row)
			if err != nil {
				return nil, err
			}
			pred[i] += v
		}
	}
	return m, nil
}

// Predict returns the regression output for one row.
func (m *BoostedRegressor) Predict(x []float64) (float64, error) {
	if err := checkWidth(x, m.Features); err != nil {
		return 0, err
	}
	out := m.BaseScore
	for _, t := range m.Trees {
		v, err := leafValue(t, x)
		if err != nil {
			return 0, err
		}
		out += v
	}
	return out, nil
}

// NumFeatures returns the expected input width.
func (m *BoostedRegressor) NumFeatures() int { return m.Features }

// Validate checks a decoded ensemble before it serves predictions.
func (m *BoostedRegressor) Validate() error {
	if m.Features <= 0 {
		return fmt.Errorf("ensemble: n_features must be positive, got %d", m.Features)
	}
	for i, t := range m.Trees {
		if t == nil {
			return fmt.Errorf("ensemble: tree %d is null", i)
		}
		if err := t.Validate(m.Features, 1); err != nil {
			return fmt.Errorf("ensemble: tree %d: %w", i, err)
		}
	}
	return nil
}

// FeatureImportances returns total split gain per feature, normalised.
func (m *BoostedRegressor) FeatureImportances() []float64 {
	imp := make([]float64, m.Features)
	for _, t := range m.Trees {
		addImportance(imp, t)
	}
	return normalize(imp)
}

// BoostedClassifier is a softmax boosted ensemble with one tree per class
// per round.
type BoostedClassifier struct {
	// Trees[round][class]
	Trees    [][]*tree.Tree `json:"trees"`
	Classes  int            `json:"n_classes"`
	Features int            `json:"n_features"`
}

// FitBoostedClassifier fits a multiclass softmax ensemble. Labels must lie
// in [0, classes).
func FitBoostedClassifier(x [][]float64, y []int, classes int, cfg BoostConfig) (*BoostedClassifier, error) {
	p, err := validate(x, len(y))
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if classes < 2 {
		return nil, fmt.Errorf("ensemble: need at least 2 classes, got %d", classes)
	}
	for i, label := range y {
		if label < 0 || label >= classes {
			return nil, fmt.Errorf("ensemble: label %d at row %d outside [0,%d)", label, i, classes)
		}
	}

	n := len(x)
	rng := newRNG(cfg.Seed)
	m := &BoostedClassifier{Classes: classes, Features: p}

	margins := make([][]float64, n)
	for i := range margins {
		margins[i] = make([]float64, classes)
	}
	proba := make([]float64, classes)
	grad := make([][]float64, classes)
	hess := make([][]float64, classes)
	for k := range grad {
		grad[k] = make([]float64, n)
		hess[k] = make([]float64, n)
	}

	for round := 0; round < cfg.Rounds; round++ {
		for i := range x {
			softmax(margins[i], proba)
			for k, pk := range proba {
				target := 0.0
				if y[i] == k {
					target = 1
				}
				grad[k][i] = pk - target
				hess[k][i] = max(2*pk*(1-pk), 1e-16)
			}
		}

		roundTrees := make([]*tree.Tree, classes)
		for k := 0; k < classes; k++ {
			rows := subsampleRows(rng, n, cfg.Subsample)
			cols := sampleColumns(rng, p, cfg.ColsampleByTree)
			t, err := tree.GrowGradient(x, grad[k], hess[k], rows, cols, p, cfg.treeParams())
			if err != nil {
				return nil, fmt.Errorf("ensemble: round %d class %d: %w", round, k, err)
			}
			roundTrees[k] = t
		}
		for i, row := range x {
			for k, t := range roundTrees {
				v, err := leafValue(t, row)
				if err != nil {
					return nil, err
				}
				margins[i][k] += v
			}
		}
		m.Trees = append(m.Trees, roundTrees)
	}
	return m, nil
}

// PredictProba returns the class distribution for one row.
func (m *BoostedClassifier) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(x, m.Features); err != nil {
		return nil, err
	}
	margins := make([]float64, m.Classes)
	for _, round := range m.Trees {
		if len(round) != m.Classes {
			return nil, fmt.Errorf("ensemble: round has %d trees, want %d", len(round), m.Classes)
		}
		for k, t := range round {
			v, err := leafValue(t, x)
			if err != nil {
				return nil, err
			}
			margins[k] += v
		}
	}
	out := make([]float64, m.Classes)
	softmax(margins, out)
	return out, nil
}

// NumFeatures returns the expected input width.
func (m *BoostedClassifier) NumFeatures() int { return m.Features }

// NumClasses returns the number of output classes.
func (m *BoostedClassifier) NumClasses() int { return m.Classes }

// Validate checks a decoded ensemble before it serves predictions.
func (m *BoostedClassifier) Validate() error {
	if m.Features <= 0 {
		return fmt.Errorf("ensemble: n_features must be positive, got %d", m.Features)
	}
	if m.Classes < 2 {
		return fmt.Errorf("ensemble: n_classes must be at least 2, got %d", m.Classes)
	}
	for r, round := range m.Trees {
		if len(round) != m.Classes {
			return fmt.Errorf("ensemble: round %d has %d trees, want %d", r, len(round), m.Classes)
		}
		for k, t := range round {
			if t == nil {
				return fmt.Errorf("ensemble: round %d class %d is null", r, k)
			}
			if err := t.Validate(m.Features, 1); err != nil {
				return fmt.Errorf("ensemble: round %d class %d: %w", r, k, err)
			}
		}
	}
	return nil
}

// FeatureImportances returns total split gain per feature across all
// classes, normalised.
func (m *BoostedClassifier) FeatureImportances() []float64 {
	imp := make([]float64, m.Features)
	for _, round := range m.Trees {
		for _, t := range round {
			addImportance(imp, t)
		}
	}
	return normalize(imp)
}
