package ensemble

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/namitjain73/IPEC-Hackethon/internal/ml/tree"
)

// ForestConfig holds random forest hyperparameters.
type ForestConfig struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	// MaxFeatures per split; zero means floor(sqrt(p)).
	MaxFeatures int
	// Balanced reweights classes by n / (classes * n_c).
	Balanced bool
	Seed     uint64
}

// RandomForest is a bagged ensemble of gini trees.
type RandomForest struct {
	Trees    []*tree.Tree `json:"trees"`
	Classes  int          `json:"n_classes"`
	Features int          `json:"n_features"`
}

// FitRandomForest fits a bootstrap-aggregated classifier. Labels must lie
// in [0, classes).
func FitRandomForest(x [][]float64, y []int, classes int, cfg ForestConfig) (*RandomForest, error) {
	p, err := validate(x, len(y))
	if err != nil {
		return nil, err
	}
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("ensemble: trees must be positive, got %d", cfg.Trees)
	}
	if classes < 2 {
		return nil, fmt.Errorf("ensemble: need at least 2 classes, got %d", classes)
	}
	for i, label := range y {
		if label < 0 || label >= classes {
			return nil, fmt.Errorf("ensemble: label %d at row %d outside [0,%d)", label, i, classes)
		}
	}

	maxFeatures := cfg.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(1, int(math.Sqrt(float64(p))))
	}
	params := tree.GiniParams{
		MaxDepth:        cfg.MaxDepth,
		MinSamplesSplit: max(cfg.MinSamplesSplit, 2),
		MinSamplesLeaf:  max(cfg.MinSamplesLeaf, 1),
		MaxFeatures:     min(maxFeatures, p),
		NumClasses:      classes,
	}

	classWeight := uniformWeights(classes)
	if cfg.Balanced {
		classWeight = balancedWeights(y, classes)
	}

	rng := newRNG(cfg.Seed)
	n := len(x)
	f := &RandomForest{Classes: classes, Features: p}
	weight := make([]float64, n)
	for b := 0; b < cfg.Trees; b++ {
		counts := bootstrap(rng, n)
		rows := make([]int, 0, n)
		for i, c := range counts {
			weight[i] = c * classWeight[y[i]]
			if c > 0 {
				rows = append(rows, i)
			}
		}
		t, err := tree.GrowGini(x, y, weight, rows, p, params, rng)
		if err != nil {
			return nil, fmt.Errorf("ensemble: tree %d: %w", b, err)
		}
		f.Trees = append(f.Trees, t)
	}
	return f, nil
}

// PredictProba averages the leaf distributions of every tree.
func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if err := checkWidth(x, f.Features); err != nil {
		return nil, err
	}
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("ensemble: forest has no trees")
	}
	out := make([]float64, f.Classes)
	for _, t := range f.Trees {
		dist, err := t.Leaf(x)
		if err != nil {
			return nil, err
		}
		if len(dist) != f.Classes {
			return nil, fmt.Errorf("ensemble: leaf has %d classes, want %d", len(dist), f.Classes)
		}
		floats.Add(out, dist)
	}
	floats.Scale(1/float64(len(f.Trees)), out)
	return out, nil
}

// NumFeatures returns the expected input width.
func (f *RandomForest) NumFeatures() int { return f.Features }

// NumClasses returns the number of output classes.
func (f *RandomForest) NumClasses() int { return f.Classes }

// Validate checks a decoded forest before it serves predictions.
func (f *RandomForest) Validate() error {
	if f.Features <= 0 {
		return fmt.Errorf("ensemble: n_features must be positive, got %d", f.Features)
	}
	if f.Classes < 2 {
		return fmt.Errorf("ensemble: n_classes must be at least 2, got %d", f.Classes)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("ensemble: forest has no trees")
	}
	for i, t := range f.Trees {
		if t == nil {
			return fmt.Errorf("ensemble: tree %d is null", i)
		}
		if err := t.Validate(f.Features, f.Classes); err != nil {
			return fmt.Errorf("ensemble: tree %d: %w", i, err)
		}
	}
	return nil
}

// FeatureImportances averages per-tree normalised impurity decrease.
func (f *RandomForest) FeatureImportances() []float64 {
	imp := make([]float64, f.Features)
	for _, t := range f.Trees {
		if len(t.Importance) != f.Features {
			continue
		}
		per := normalize(append([]float64(nil), t.Importance...))
		floats.Add(imp, per)
	}
	return normalize(imp)
}

func uniformWeights(classes int) []float64 {
	w := make([]float64, classes)
	for k := range w {
		w[k] = 1
	}
	return w
}

// balancedWeights returns n / (present * n_c) where present counts the
// classes seen in y; absent classes get zero.
func balancedWeights(y []int, classes int) []float64 {
	counts := make([]float64, classes)
	for _, label := range y {
		counts[label]++
	}
	present := 0
	for _, c := range counts {
		if c > 0 {
			present++
		}
	}
	w := make([]float64, classes)
	for k, c := range counts {
		if c > 0 {
			w[k] = float64(len(y)) / (float64(present) * c)
		}
	}
	return w
}
