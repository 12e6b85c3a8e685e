package ml

import (
	"fmt"
)

// Tree is a single decision tree stored as flat node tables. Node i is an
// internal node when ChildrenLeft[i] >= 0, in which case samples with
// feature value <= Threshold[i] descend left, otherwise right. Leaves carry
// the class histogram of the training samples that reached them in Value[i].
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Leaf sentinel for the children tables.
const noChild = -1

// predictProba walks the tree for one sample and returns the normalized
// class distribution of the reached leaf.
func (t *Tree) predictProba(features []float64, numClasses int) ([]float64, error) {
	node := 0
	for t.ChildrenLeft[node] != noChild {
		f := t.Feature[node]
		if f < 0 || f >= len(features) {
			return nil, fmt.Errorf("tree references feature %d, sample has %d", f, len(features))
		}
		if features[f] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}

	counts := t.Value[node]
	if len(counts) != numClasses {
		return nil, fmt.Errorf("leaf histogram has %d classes, forest has %d", len(counts), numClasses)
	}

	total := 0.0
	for _, c := range counts {
		total += c
	}
	probs := make([]float64, numClasses)
	if total > 0 {
		for i, c := range counts {
			probs[i] = c / total
		}
	}
	return probs, nil
}

// validate checks internal consistency of the node tables.
func (t *Tree) validate(numClasses int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree node tables have inconsistent lengths")
	}
	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if (left == noChild) != (right == noChild) {
			return fmt.Errorf("node %d has exactly one child", i)
		}
		if left != noChild && (left <= i || left >= n || right <= i || right >= n) {
			return fmt.Errorf("node %d has out-of-range children", i)
		}
		if len(t.Value[i]) != numClasses {
			return fmt.Errorf("node %d histogram has %d classes, expected %d", i, len(t.Value[i]), numClasses)
		}
	}
	return nil
}

// Forest is a random forest classifier. Prediction averages the per-tree
// leaf distributions, the same soft-voting rule scikit-learn forests use.
type Forest struct {
	NumClasses int    `json:"n_classes"`
	Trees      []Tree `json:"trees"`
}

// PredictProba returns the averaged class distribution for one sample.
func (f *Forest) PredictProba(features []float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}

	sum := make([]float64, f.NumClasses)
	for i := range f.Trees {
		probs, err := f.Trees[i].predictProba(features, f.NumClasses)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		for j, p := range probs {
			sum[j] += p
		}
	}

	n := float64(len(f.Trees))
	for j := range sum {
		sum[j] /= n
	}
	return sum, nil
}

// Predict returns the index of the most probable class for one sample.
// Ties resolve to the lowest class index.
func (f *Forest) Predict(features []float64) (int, error) {
	probs, err := f.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return ArgMax(probs), nil
}

// Validate checks that every tree in the forest is structurally sound.
func (f *Forest) Validate() error {
	if f.NumClasses <= 0 {
		return fmt.Errorf("forest has invalid class count %d", f.NumClasses)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.NumClasses); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// ArgMax returns the index of the largest value, preferring the lowest index
// on ties.
func ArgMax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
