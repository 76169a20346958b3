// Package split partitions row indices into train and test sets.
package split

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// Indices holds disjoint sorted train and test row indices.
type Indices struct {
	Train []int
	Test  []int
}

// TestSize returns ceil(frac*n), kept within [1, n-1] when n > 1.
func TestSize(n int, frac float64) int {
	k := int(math.Ceil(frac * float64(n)))
	return max(1, min(k, n-1))
}

// Random shuffles n rows with seed and holds out TestSize(n, frac) of them.
func Random(n int, frac float64, seed uint64) (Indices, error) {
	if n < 2 {
		return Indices{}, fmt.Errorf("split: need at least 2 rows, got %d", n)
	}
	perm := rng(seed).Perm(n)
	k := TestSize(n, frac)
	return sorted(perm[k:], perm[:k]), nil
}

// Stratified holds out TestSize(n, frac) rows while keeping per-label
// proportions. Allocation is by largest remainder; every label keeps at least
// one training row, so singleton labels never reach the test set.
func Stratified(labels []int, frac float64, seed uint64) (Indices, error) {
	n := len(labels)
	if n < 2 {
		return Indices{}, fmt.Errorf("split: need at least 2 rows, got %d", n)
	}

	byLabel := map[int][]int{}
	for i, l := range labels {
		byLabel[l] = append(byLabel[l], i)
	}
	keys := make([]int, 0, len(byLabel))
	for l := range byLabel {
		keys = append(keys, l)
	}
	slices.Sort(keys)

	alloc := allocate(keys, byLabel, TestSize(n, frac), n)

	r := rng(seed)
	var train, test []int
	for _, l := range keys {
		rows := slices.Clone(byLabel[l])
		r.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		test = append(test, rows[:alloc[l]]...)
		train = append(train, rows[alloc[l]:]...)
	}
	return sorted(train, test), nil
}

func allocate(keys []int, byLabel map[int][]int, testN, n int) map[int]int {
	type share struct {
		label int
		frac  float64
	}
	alloc := make(map[int]int, len(keys))
	shares := make([]share, 0, len(keys))
	assigned := 0
	for _, l := range keys {
		ideal := float64(testN) * float64(len(byLabel[l])) / float64(n)
		whole := min(int(ideal), len(byLabel[l])-1)
		alloc[l] = whole
		assigned += whole
		shares = append(shares, share{label: l, frac: ideal - float64(whole)})
	}
	slices.SortStableFunc(shares, func(a, b share) int {
		return cmp.Compare(b.frac, a.frac)
	})

	// Hand out the remainder, skipping labels with no spare training rows.
	for progress := true; assigned < testN && progress; {
		progress = false
		for _, s := range shares {
			if assigned >= testN {
				break
			}
			if alloc[s.label] < len(byLabel[s.label])-1 {
				alloc[s.label]++
				assigned++
				progress = true
			}
		}
	}
	return alloc
}

func sorted(train, test []int) Indices {
	train = slices.Clone(train)
	test = slices.Clone(test)
	slices.Sort(train)
	slices.Sort(test)
	return Indices{Train: train, Test: test}
}

func rng(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}
