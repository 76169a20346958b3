package metrics

import (
	"slices"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
)

// Average selects how per-class scores are combined.
type Average int

const (
	// Binary reports precision, recall and f1 of the positive label 1.
	Binary Average = iota
	// Weighted averages per-class scores weighted by true support.
	Weighted
)

// Classification computes accuracy, precision, recall, f1 and the confusion
// matrix over the sorted union of labels in yTrue and yPred. Undefined
// ratios score 0.
func Classification(yTrue, yPred []int, avg Average) (model.ClassificationMetrics, error) {
	if err := sameLength(len(yTrue), len(yPred)); err != nil {
		return model.ClassificationMetrics{}, err
	}

	labels := unionLabels(yTrue, yPred)
	index := make(map[int]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	cm := make([][]int, len(labels))
	for i := range cm {
		cm[i] = make([]int, len(labels))
	}
	correct := 0
	for i := range yTrue {
		cm[index[yTrue[i]]][index[yPred[i]]]++
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	out := model.ClassificationMetrics{
		Labels:          labels,
		ConfusionMatrix: cm,
		Accuracy:        float64(correct) / float64(len(yTrue)),
	}

	switch avg {
	case Binary:
		if i, ok := index[1]; ok {
			out.Precision, out.Recall, out.F1, _ = classScores(cm, i)
		}
	case Weighted:
		var total float64
		for i := range labels {
			p, r, f, support := classScores(cm, i)
			out.Precision += p * support
			out.Recall += r * support
			out.F1 += f * support
			total += support
		}
		if total > 0 {
			out.Precision /= total
			out.Recall /= total
			out.F1 /= total
		}
	}
	return out, nil
}

// classScores returns precision, recall, f1 and true support of class i.
func classScores(cm [][]int, i int) (precision, recall, f1, support float64) {
	var tp, predicted, actual float64
	tp = float64(cm[i][i])
	for j := range cm {
		predicted += float64(cm[j][i])
		actual += float64(cm[i][j])
	}
	precision = ratio(tp, predicted)
	recall = ratio(tp, actual)
	f1 = ratio(2*precision*recall, precision+recall)
	return precision, recall, f1, actual
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func unionLabels(a, b []int) []int {
	seen := map[int]struct{}{}
	for _, v := range a {
		seen[v] = struct{}{}
	}
	for _, v := range b {
		seen[v] = struct{}{}
	}
	labels := make([]int, 0, len(seen))
	for v := range seen {
		labels = append(labels, v)
	}
	slices.Sort(labels)
	return labels
}
