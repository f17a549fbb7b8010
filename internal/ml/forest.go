package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/yourusername/signal-filter/internal/config"
)

// numClasses is fixed: the filter is a binary win/loss classifier
const numClasses = 2

// RandomForest is a bootstrap-aggregated ensemble of CART decision trees with
// class-balanced sample weighting to counter label imbalance. Training is
// deterministic: a single seeded RNG drives bootstrap draws and per-node
// feature subsampling, so identical inputs produce identical forests.
//
// Fields are exported for JSON persistence; a fitted forest is read-only.
type RandomForest struct {
	Config      config.ForestConfig `json:"config"`
	NumFeatures int                 `json:"numFeatures"`
	ClassLabels []int               `json:"classes"`
	Trees       []*treeNode         `json:"trees"`
}

// treeNode is either an internal split (Proba nil) or a leaf holding the
// weighted class distribution. Short JSON keys keep the artifact compact.
type treeNode struct {
	Feature   int       `json:"f,omitempty"`
	Threshold float64   `json:"t,omitempty"`
	Left      *treeNode `json:"l,omitempty"`
	Right     *treeNode `json:"r,omitempty"`
	Proba     []float64 `json:"p,omitempty"`
}

// NewRandomForest creates an unfitted forest with the given hyperparameters
func NewRandomForest(cfg config.ForestConfig) *RandomForest {
	return &RandomForest{Config: cfg}
}

// Fit trains the ensemble on the full input. Labels must be 0 or 1.
func (f *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature/label length mismatch: %d vs %d", len(X), len(y))
	}
	for _, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("label %d outside binary range", label)
		}
	}

	f.NumFeatures = len(X[0])
	f.ClassLabels = seenClasses(y)
	weights := balancedWeights(y)
	rng := rand.New(rand.NewSource(f.Config.Seed))
	mtry := int(math.Sqrt(float64(f.NumFeatures)))
	if mtry < 1 {
		mtry = 1
	}

	f.Trees = make([]*treeNode, 0, f.Config.Trees)
	for t := 0; t < f.Config.Trees; t++ {
		// Bootstrap: n draws with replacement
		idx := make([]int, len(X))
		for i := range idx {
			idx[i] = rng.Intn(len(X))
		}
		f.Trees = append(f.Trees, f.grow(X, y, weights, idx, 0, mtry, rng))
	}
	return nil
}

// Classes returns the distinct labels seen at fit time, ascending
func (f *RandomForest) Classes() []int {
	return f.ClassLabels
}

// PredictProba averages the leaf distributions across all trees. A forest fit
// on a single class returns a one-column distribution: it has no basis for
// separating wins from losses, and callers must treat it accordingly.
func (f *RandomForest) PredictProba(x []float64) []float64 {
	if len(f.ClassLabels) == 1 {
		return []float64{1}
	}
	proba := make([]float64, numClasses)
	if len(f.Trees) == 0 {
		return proba
	}
	for _, tree := range f.Trees {
		node := tree
		for node.Proba == nil {
			if x[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		for c, p := range node.Proba {
			proba[c] += p
		}
	}
	for c := range proba {
		proba[c] /= float64(len(f.Trees))
	}
	return proba
}

func seenClasses(y []int) []int {
	var present [numClasses]bool
	for _, label := range y {
		present[label] = true
	}
	classes := make([]int, 0, numClasses)
	for c := 0; c < numClasses; c++ {
		if present[c] {
			classes = append(classes, c)
		}
	}
	return classes
}

// balancedWeights assigns each sample w = n / (numClasses * count(class)),
// so both classes contribute equal total weight regardless of imbalance
func balancedWeights(y []int) []float64 {
	var counts [numClasses]float64
	for _, label := range y {
		counts[label]++
	}
	var perClass [numClasses]float64
	n := float64(len(y))
	for c := 0; c < numClasses; c++ {
		if counts[c] > 0 {
			perClass[c] = n / (numClasses * counts[c])
		}
	}
	weights := make([]float64, len(y))
	for i, label := range y {
		weights[i] = perClass[label]
	}
	return weights
}

func (f *RandomForest) grow(X [][]float64, y []int, w []float64, idx []int, depth, mtry int, rng *rand.Rand) *treeNode {
	dist := distribution(y, w, idx)
	if depth >= f.Config.MaxDepth || len(idx) < f.Config.MinSamplesSplit || pure(dist) {
		return &treeNode{Proba: dist}
	}

	feature, threshold, ok := f.bestSplit(X, y, w, idx, mtry, rng)
	if !ok {
		return &treeNode{Proba: dist}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < f.Config.MinSamplesLeaf || len(right) < f.Config.MinSamplesLeaf {
		return &treeNode{Proba: dist}
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      f.grow(X, y, w, left, depth+1, mtry, rng),
		Right:     f.grow(X, y, w, right, depth+1, mtry, rng),
	}
}

// bestSplit scans a random feature subset for the threshold minimizing
// weighted Gini impurity, honoring the minimum leaf size
func (f *RandomForest) bestSplit(X [][]float64, y []int, w []float64, idx []int, mtry int, rng *rand.Rand) (int, float64, bool) {
	bestImpurity := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	order := make([]int, len(idx))
	for _, feature := range rng.Perm(f.NumFeatures)[:mtry] {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool {
			return X[order[a]][feature] < X[order[b]][feature]
		})

		var leftW, rightW [numClasses]float64
		for _, i := range order {
			rightW[y[i]] += w[i]
		}

		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			leftW[y[i]] += w[i]
			rightW[y[i]] -= w[i]

			cur := X[i][feature]
			next := X[order[pos+1]][feature]
			if cur == next {
				continue
			}
			if pos+1 < f.Config.MinSamplesLeaf || len(order)-pos-1 < f.Config.MinSamplesLeaf {
				continue
			}

			lw := leftW[0] + leftW[1]
			rw := rightW[0] + rightW[1]
			impurity := (lw*gini(leftW) + rw*gini(rightW)) / (lw + rw)
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = feature
				bestThreshold = (cur + next) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

// gini computes the Gini impurity 1 - sum(p_c^2) of a weighted class
// count pair. Zero total weight counts as pure.
func gini(w [numClasses]float64) float64 {
	total := w[0] + w[1]
	if total == 0 {
		return 0
	}
	p0 := w[0] / total
	p1 := w[1] / total
	return 1 - p0*p0 - p1*p1
}

func distribution(y []int, w []float64, idx []int) []float64 {
	dist := make([]float64, numClasses)
	total := 0.0
	for _, i := range idx {
		dist[y[i]] += w[i]
		total += w[i]
	}
	if total > 0 {
		for c := range dist {
			dist[c] /= total
		}
	}
	return dist
}

func pure(dist []float64) bool {
	for _, p := range dist {
		if p > 0 && p < 1 {
			return false
		}
	}
	return true
}
