package tree

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// GiniParams controls weighted gini tree growth.
type GiniParams struct {
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	// MaxFeatures is the number of features drawn per node. The search keeps
	// drawing past it when none of the drawn features gives a valid split.
	MaxFeatures int
	NumClasses  int
}

type giniGrower struct {
	x      [][]float64
	y      []int
	weight []float64
	rng    *rand.Rand
	tree   *Tree
	params GiniParams
	nFeat  int
}

// GrowGini fits a classification tree. rows are distinct row indices and
// weight[r] is the total weight of row r (bootstrap count times class
// weight). Leaves hold the weighted class distribution.
func GrowGini(x [][]float64, y []int, weight []float64, rows []int, numFeatures int, p GiniParams, rng *rand.Rand) (*Tree, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	if len(y) != len(x) || len(weight) != len(x) {
		return nil, fmt.Errorf("tree: %d rows but %d labels and %d weights", len(x), len(y), len(weight))
	}
	for _, r := range rows {
		if y[r] < 0 || y[r] >= p.NumClasses {
			return nil, fmt.Errorf("tree: label %d outside [0,%d)", y[r], p.NumClasses)
		}
	}
	g := &giniGrower{
		x:      x,
		y:      y,
		weight: weight,
		rng:    rng,
		params: p,
		nFeat:  numFeatures,
		tree:   &Tree{Importance: make([]float64, numFeatures)},
	}
	g.grow(slices.Clone(rows), 0)
	return g.tree, nil
}

func (g *giniGrower) grow(rows []int, depth int) int {
	dist := make([]float64, g.params.NumClasses)
	var total float64
	for _, r := range rows {
		dist[g.y[r]] += g.weight[r]
		total += g.weight[r]
	}

	if g.splittable(rows, depth, dist, total) {
		if best, ok := g.bestSplit(rows, dist, total); ok {
			left, right := partition(g.x, rows, best.feature, best.threshold)
			idx := g.tree.addSplit(best.feature, best.threshold)
			g.tree.Importance[best.feature] += total * best.gain
			l := g.grow(left, depth+1)
			r := g.grow(right, depth+1)
			g.tree.Nodes[idx].Left = l
			g.tree.Nodes[idx].Right = r
			return idx
		}
	}

	if total > 0 {
		for k := range dist {
			dist[k] /= total
		}
	}
	return g.tree.addLeaf(dist)
}

func (g *giniGrower) splittable(rows []int, depth int, dist []float64, total float64) bool {
	if g.params.MaxDepth > 0 && depth >= g.params.MaxDepth {
		return false
	}
	if len(rows) < g.params.MinSamplesSplit || len(rows) < 2*max(g.params.MinSamplesLeaf, 1) {
		return false
	}
	return gini(dist, total) > 0
}

func (g *giniGrower) bestSplit(rows []int, dist []float64, total float64) (candidate, bool) {
	parent := gini(dist, total)
	minLeaf := max(g.params.MinSamplesLeaf, 1)
	k := g.params.NumClasses

	var best candidate
	found := false
	for i, f := range g.rng.Perm(g.nFeat) {
		if i >= g.params.MaxFeatures && found {
			break
		}
		sorted := sortedBy(g.x, rows, f)
		left := make([]float64, k)
		var wl float64
		for j := 0; j < len(sorted)-1; j++ {
			r := sorted[j]
			left[g.y[r]] += g.weight[r]
			wl += g.weight[r]
			a, b := g.x[r][f], g.x[sorted[j+1]][f]
			if a == b {
				continue
			}
			nl, nr := j+1, len(sorted)-j-1
			if nl < minLeaf || nr < minLeaf {
				continue
			}
			wr := total - wl
			right := make([]float64, k)
			for c := range right {
				right[c] = dist[c] - left[c]
			}
			gain := parent - (wl/total)*gini(left, wl) - (wr/total)*gini(right, wr)
			if gain > 1e-12 && (!found || gain > best.gain) {
				best = candidate{feature: f, threshold: midpoint(a, b), gain: gain}
				found = true
			}
		}
	}
	return best, found
}

func gini(dist []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	sum := 1.0
	for _, w := range dist {
		p := w / total
		sum -= p * p
	}
	return sum
}
