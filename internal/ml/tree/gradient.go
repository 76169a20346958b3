package tree

import (
	"fmt"
	"slices"
)

// GradientParams controls second-order gradient tree growth.
type GradientParams struct {
	MaxDepth       int
	Lambda         float64 // L2 penalty on leaf weights
	Gamma          float64 // minimum gain required to split
	MinChildWeight float64 // minimum hessian sum per child
	Eta            float64 // shrinkage applied to leaf weights
}

type gradientGrower struct {
	x        [][]float64
	grad     []float64
	hess     []float64
	features []int
	tree     *Tree
	params   GradientParams
}

// GrowGradient fits a regression tree to per-row gradients and hessians.
// Only rows and features listed are considered; leaf values are already
// scaled by Eta.
func GrowGradient(x [][]float64, grad, hess []float64, rows, features []int, numFeatures int, p GradientParams) (*Tree, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	if len(grad) != len(x) || len(hess) != len(x) {
		return nil, fmt.Errorf("tree: %d rows but %d gradients and %d hessians", len(x), len(grad), len(hess))
	}
	g := &gradientGrower{
		x:        x,
		grad:     grad,
		hess:     hess,
		features: features,
		params:   p,
		tree:     &Tree{Importance: make([]float64, numFeatures)},
	}
	g.grow(slices.Clone(rows), 0)
	return g.tree, nil
}

func (g *gradientGrower) grow(rows []int, depth int) int {
	var sumG, sumH float64
	for _, r := range rows {
		sumG += g.grad[r]
		sumH += g.hess[r]
	}

	if depth < g.params.MaxDepth && len(rows) > 1 {
		if best, ok := g.bestSplit(rows, sumG, sumH); ok {
			left, right := partition(g.x, rows, best.feature, best.threshold)
			idx := g.tree.addSplit(best.feature, best.threshold)
			g.tree.Importance[best.feature] += best.gain
			l := g.grow(left, depth+1)
			r := g.grow(right, depth+1)
			g.tree.Nodes[idx].Left = l
			g.tree.Nodes[idx].Right = r
			return idx
		}
	}

	return g.tree.addLeaf([]float64{-sumG / (sumH + g.params.Lambda) * g.params.Eta})
}

func (g *gradientGrower) bestSplit(rows []int, sumG, sumH float64) (candidate, bool) {
	lambda := g.params.Lambda
	parent := sumG * sumG / (sumH + lambda)

	var best candidate
	found := false
	for _, f := range g.features {
		sorted := sortedBy(g.x, rows, f)
		var gl, hl float64
		for i := 0; i < len(sorted)-1; i++ {
			r := sorted[i]
			gl += g.grad[r]
			hl += g.hess[r]
			a, b := g.x[r][f], g.x[sorted[i+1]][f]
			if a == b {
				continue
			}
			gr, hr := sumG-gl, sumH-hl
			if hl < g.params.MinChildWeight || hr < g.params.MinChildWeight {
				continue
			}
			gain := 0.5*(gl*gl/(hl+lambda)+gr*gr/(hr+lambda)-parent) - g.params.Gamma
			if gain > 0 && (!found || gain > best.gain) {
				best = candidate{feature: f, threshold: midpoint(a, b), gain: gain}
				found = true
			}
		}
	}
	return best, found
}

// sortedBy returns a copy of rows ordered by feature f.
func sortedBy(x [][]float64, rows []int, f int) []int {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b int) int {
		switch {
		case x[a][f] < x[b][f]:
			return -1
		case x[a][f] > x[b][f]:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

func partition(x [][]float64, rows []int, f int, threshold float64) (left, right []int) {
	for _, r := range rows {
		if x[r][f] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return left, right
}

// midpoint returns a threshold t with a <= t < b.
func midpoint(a, b float64) float64 {
	t := a + (b-a)/2
	if t >= b {
		return a
	}
	return t
}
