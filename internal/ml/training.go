package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// TrainingConfig carries the hyperparameters for fitting a forest. The
// defaults mirror the configuration the production model was trained with.
type TrainingConfig struct {
	NumTrees        int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            int64
}

// DefaultTrainingConfig returns the pinned production hyperparameters.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		NumTrees:        100,
		MaxDepth:        20,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		Seed:            42,
	}
}

// FitForest trains a random forest on standardized feature rows and encoded
// target labels. Each tree is grown on a bootstrap sample and splits are
// chosen from a random sqrt-sized feature subset using Gini impurity.
func FitForest(rows [][]float64, labels []int, numClasses int, cfg TrainingConfig) (*Forest, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot train on an empty dataset")
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("feature rows and labels differ in length: %d vs %d", len(rows), len(labels))
	}
	if cfg.NumTrees <= 0 {
		return nil, fmt.Errorf("tree count must be positive, got %d", cfg.NumTrees)
	}

	numFeatures := len(rows[0])
	maxFeatures := int(math.Sqrt(float64(numFeatures)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	forest := &Forest{
		NumClasses: numClasses,
		Trees:      make([]Tree, 0, cfg.NumTrees),
	}

	for t := 0; t < cfg.NumTrees; t++ {
		// Bootstrap sample with replacement
		indices := make([]int, len(rows))
		for i := range indices {
			indices[i] = rng.Intn(len(rows))
		}

		builder := &treeBuilder{
			rows:        rows,
			labels:      labels,
			numClasses:  numClasses,
			maxFeatures: maxFeatures,
			cfg:         cfg,
			rng:         rng,
		}
		builder.grow(indices, 0)
		forest.Trees = append(forest.Trees, builder.tree)
	}

	return forest, nil
}

// treeBuilder grows a single decision tree into flat node tables.
type treeBuilder struct {
	rows        [][]float64
	labels      []int
	numClasses  int
	maxFeatures int
	cfg         TrainingConfig
	rng         *rand.Rand
	tree        Tree
}

// grow recursively builds the subtree for the given sample indices and
// returns the new node's index in the flat tables.
func (b *treeBuilder) grow(indices []int, depth int) int {
	counts := b.classCounts(indices)

	node := len(b.tree.ChildrenLeft)
	b.tree.ChildrenLeft = append(b.tree.ChildrenLeft, noChild)
	b.tree.ChildrenRight = append(b.tree.ChildrenRight, noChild)
	b.tree.Feature = append(b.tree.Feature, noChild)
	b.tree.Threshold = append(b.tree.Threshold, 0)
	b.tree.Value = append(b.tree.Value, counts)

	if b.isPure(counts) ||
		len(indices) < b.cfg.MinSamplesSplit ||
		(b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth) {
		return node
	}

	feature, threshold, ok := b.bestSplit(indices, counts)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range indices {
		if b.rows[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.cfg.MinSamplesLeaf || len(right) < b.cfg.MinSamplesLeaf {
		return node
	}

	b.tree.Feature[node] = feature
	b.tree.Threshold[node] = threshold
	b.tree.ChildrenLeft[node] = b.grow(left, depth+1)
	b.tree.ChildrenRight[node] = b.grow(right, depth+1)
	return node
}

// bestSplit searches a random feature subset for the split with the lowest
// weighted Gini impurity. It reports ok=false when no split improves on the
// parent or satisfies the minimum leaf size.
func (b *treeBuilder) bestSplit(indices []int, parentCounts []float64) (int, float64, bool) {
	bestFeature := -1
	bestThreshold := 0.0
	bestImpurity := gini(parentCounts, float64(len(indices)))

	for _, feature := range b.sampleFeatures() {
		// Sort samples by this feature's value
		ordered := append([]int(nil), indices...)
		sort.Slice(ordered, func(i, j int) bool {
			return b.rows[ordered[i]][feature] < b.rows[ordered[j]][feature]
		})

		leftCounts := make([]float64, b.numClasses)
		rightCounts := append([]float64(nil), parentCounts...)
		total := float64(len(ordered))

		for i := 0; i < len(ordered)-1; i++ {
			label := b.labels[ordered[i]]
			leftCounts[label]++
			rightCounts[label]--

			cur := b.rows[ordered[i]][feature]
			next := b.rows[ordered[i+1]][feature]
			if cur == next {
				continue
			}

			nLeft := float64(i + 1)
			nRight := total - nLeft
			if int(nLeft) < b.cfg.MinSamplesLeaf || int(nRight) < b.cfg.MinSamplesLeaf {
				continue
			}

			impurity := (nLeft*gini(leftCounts, nLeft) + nRight*gini(rightCounts, nRight)) / total
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = feature
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// sampleFeatures draws a random subset of feature indices without
// replacement.
func (b *treeBuilder) sampleFeatures() []int {
	numFeatures := len(b.rows[0])
	perm := b.rng.Perm(numFeatures)
	return perm[:b.maxFeatures]
}

// classCounts tallies labels over the given sample indices.
func (b *treeBuilder) classCounts(indices []int) []float64 {
	counts := make([]float64, b.numClasses)
	for _, i := range indices {
		counts[b.labels[i]]++
	}
	return counts
}

// isPure reports whether all samples in the histogram share one class.
func (b *treeBuilder) isPure(counts []float64) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// gini computes the Gini impurity of a class histogram with the given total.
func gini(counts []float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := c / total
		impurity -= p * p
	}
	return impurity
}

// StratifiedSplit partitions sample indices into train and test sets,
// preserving the per-class proportions. The split is deterministic for a
// given seed.
func StratifiedSplit(labels []int, testFraction float64, seed int64) (trainIdx, testIdx []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %v", testFraction)
	}

	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	// Iterate classes in a stable order so the split is reproducible
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	for _, c := range classes {
		indices := byClass[c]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		nTest := int(math.Round(float64(len(indices)) * testFraction))
		testIdx = append(testIdx, indices[:nTest]...)
		trainIdx = append(trainIdx, indices[nTest:]...)
	}

	sort.Ints(trainIdx)
	sort.Ints(testIdx)
	return trainIdx, testIdx, nil
}

// Accuracy scores a forest against labeled samples.
func Accuracy(f *Forest, rows [][]float64, labels []int) (float64, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("cannot score on an empty dataset")
	}

	correct := 0
	for i, row := range rows {
		predicted, err := f.Predict(row)
		if err != nil {
			return 0, err
		}
		if predicted == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(rows)), nil
}
