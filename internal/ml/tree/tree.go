// Package tree implements binary decision trees over dense float64 rows and
// the two growers used by the ensembles: a second-order gradient grower for
// boosting and a weighted gini grower for bagging.
package tree

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when a tree is asked to grow from no rows.
var ErrEmpty = errors.New("tree: no training rows")

const leaf = -1

// Node is one tree node. Internal nodes send x[Feature] <= Threshold to Left.
// Leaves have Left == Right == -1 and carry Value.
type Node struct {
	Value     []float64 `json:"v,omitempty"`
	Threshold float64   `json:"t,omitempty"`
	Feature   int       `json:"f"`
	Left      int       `json:"l"`
	Right     int       `json:"r"`
}

// IsLeaf reports whether the node is terminal.
func (n Node) IsLeaf() bool {
	return n.Left == leaf
}

// Tree is an immutable fitted tree. Nodes[0] is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
	// Importance holds the per-feature split gain accumulated during growth.
	Importance []float64 `json:"importance"`
}

// Validate checks a decoded tree against the row width it will be fed and
// the leaf value width. Children must point forward so every walk from the
// root terminates.
func (t *Tree) Validate(features, width int) error {
	if len(t.Nodes) == 0 {
		return errors.New("tree: empty tree")
	}
	for i, n := range t.Nodes {
		if n.IsLeaf() {
			if n.Right != leaf {
				return fmt.Errorf("tree: node %d has left leaf marker but right child %d", i, n.Right)
			}
			if len(n.Value) != width {
				return fmt.Errorf("tree: leaf %d holds %d values, want %d", i, len(n.Value), width)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("tree: node %d splits on feature %d, want [0, %d)", i, n.Feature, features)
		}
		for _, c := range []int{n.Left, n.Right} {
			if c <= i || c >= len(t.Nodes) {
				return fmt.Errorf("tree: node %d has child %d outside (%d, %d)", i, c, i, len(t.Nodes))
			}
		}
	}
	return nil
}

// Leaf returns the value of the leaf reached by x.
func (t *Tree) Leaf(x []float64) ([]float64, error) {
	if len(t.Nodes) == 0 {
		return nil, errors.New("tree: empty tree")
	}
	i := 0
	for {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return n.Value, nil
		}
		if n.Feature >= len(x) {
			return nil, fmt.Errorf("tree: node %d splits on feature %d, row has %d", i, n.Feature, len(x))
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

// Leaves returns the number of leaf nodes.
func (t *Tree) Leaves() int {
	count := 0
	for _, n := range t.Nodes {
		if n.IsLeaf() {
			count++
		}
	}
	return count
}

func (t *Tree) addLeaf(value []float64) int {
	t.Nodes = append(t.Nodes, Node{Left: leaf, Right: leaf, Value: value})
	return len(t.Nodes) - 1
}

func (t *Tree) addSplit(feature int, threshold float64) int {
	t.Nodes = append(t.Nodes, Node{Feature: feature, Threshold: threshold})
	return len(t.Nodes) - 1
}

// candidate is a split found while sweeping one feature.
type candidate struct {
	feature   int
	threshold float64
	gain      float64
}
