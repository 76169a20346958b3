// Package ensemble fits and evaluates the tree ensembles behind the three
// vegetation models: a gradient boosted regressor, a gradient boosted
// softmax classifier and a class-balanced random forest.
package ensemble

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/namitjain73/IPEC-Hackethon/internal/ml/tree"
)

// ErrNoData is returned when fitting on an empty matrix.
var ErrNoData = errors.New("ensemble: no training rows")

// validate checks X is a non-empty finite rectangular matrix and returns
// its column count.
func validate(x [][]float64, targets int) (int, error) {
	if len(x) == 0 {
		return 0, ErrNoData
	}
	if targets != len(x) {
		return 0, fmt.Errorf("ensemble: %d rows but %d targets", len(x), targets)
	}
	cols := len(x[0])
	if cols == 0 {
		return 0, errors.New("ensemble: rows have no features")
	}
	for i, row := range x {
		if len(row) != cols {
			return 0, fmt.Errorf("ensemble: row %d has %d features, want %d", i, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("ensemble: row %d feature %d is not finite", i, j)
			}
		}
	}
	return cols, nil
}

func checkWidth(x []float64, want int) error {
	if len(x) != want {
		return fmt.Errorf("ensemble: input has %d features, model expects %d", len(x), want)
	}
	return nil
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// subsampleRows keeps each row with probability frac, never returning an
// empty sample.
func subsampleRows(rng *rand.Rand, n int, frac float64) []int {
	if frac >= 1 {
		return allIndices(n)
	}
	rows := make([]int, 0, int(float64(n)*frac)+1)
	for i := 0; i < n; i++ {
		if rng.Float64() < frac {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		rows = append(rows, rng.IntN(n))
	}
	return rows
}

// sampleColumns draws max(1, floor(frac*p)) distinct columns, sorted.
func sampleColumns(rng *rand.Rand, p int, frac float64) []int {
	if frac >= 1 {
		return allIndices(p)
	}
	k := max(1, int(math.Floor(frac*float64(p))))
	cols := rng.Perm(p)[:k]
	slices.Sort(cols)
	return cols
}

// bootstrap draws n rows with replacement and returns per-row draw counts.
func bootstrap(rng *rand.Rand, n int) []float64 {
	counts := make([]float64, n)
	for i := 0; i < n; i++ {
		counts[rng.IntN(n)]++
	}
	return counts
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// normalize scales v in place to sum to one; an all-zero vector is left as is.
func normalize(v []float64) []float64 {
	if s := floats.Sum(v); s > 0 {
		floats.Scale(1/s, v)
	}
	return v
}

// softmax writes the softmax of margins into out.
func softmax(margins, out []float64) {
	lse := floats.LogSumExp(margins)
	for k, m := range margins {
		out[k] = math.Exp(m - lse)
	}
}

func leafValue(t *tree.Tree, x []float64) (float64, error) {
	v, err := t.Leaf(x)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func addImportance(dst []float64, t *tree.Tree) {
	if len(t.Importance) == len(dst) {
		floats.Add(dst, t.Importance)
	}
}
