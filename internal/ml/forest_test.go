package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/signal-filter/internal/config"
)

func testForestConfig() config.ForestConfig {
	return config.ForestConfig{
		Trees:           50,
		MaxDepth:        8,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		Seed:            42,
	}
}

// thresholdDataset builds n samples where the label is 1 iff the first
// feature exceeds 0.5, with the remaining features held constant
func thresholdDataset(n int) ([][]float64, []int) {
	X := make([][]float64, 0, n)
	y := make([]int, 0, n)
	for i := 0; i < n; i++ {
		value := float64(i%10) / 10.0
		X = append(X, []float64{value, 1.0, -1.0})
		if value > 0.5 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	return X, y
}

func TestForestLearnsThresholdPattern(t *testing.T) {
	X, y := thresholdDataset(200)

	forest := NewRandomForest(testForestConfig())
	require.NoError(t, forest.Fit(X, y))

	win := forest.PredictProba([]float64{0.9, 1.0, -1.0})
	loss := forest.PredictProba([]float64{0.1, 1.0, -1.0})

	// With one informative feature out of three and one feature sampled per
	// node, roughly a third of the trees learn the pattern and the rest stay
	// at the balanced prior, so the averaged probabilities land near 2/3
	require.Len(t, win, 2)
	assert.Equal(t, []int{0, 1}, forest.Classes())
	assert.Greater(t, win[1], 0.6)
	assert.Less(t, loss[1], 0.4)

	// Distributions must sum to 1
	assert.InDelta(t, 1.0, win[0]+win[1], 1e-9)
	assert.InDelta(t, 1.0, loss[0]+loss[1], 1e-9)
}

func TestForestDeterministicForFixedSeed(t *testing.T) {
	X, y := thresholdDataset(100)

	a := NewRandomForest(testForestConfig())
	b := NewRandomForest(testForestConfig())
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	probes := [][]float64{
		{0.05, 1.0, -1.0},
		{0.45, 1.0, -1.0},
		{0.55, 1.0, -1.0},
		{0.95, 1.0, -1.0},
	}
	for _, probe := range probes {
		assert.Equal(t, a.PredictProba(probe), b.PredictProba(probe))
	}
}

func TestForestSingleClassTraining(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	y := []int{1, 1, 1, 1, 1, 1}

	forest := NewRandomForest(testForestConfig())
	require.NoError(t, forest.Fit(X, y))

	// A single-class fit yields a one-column distribution; only the label
	// prediction stays meaningful
	proba := forest.PredictProba([]float64{3.5})
	require.Len(t, proba, 1)
	assert.Equal(t, 1.0, proba[0])
	assert.Equal(t, []int{1}, forest.Classes())
	assert.Equal(t, 1, PredictLabel(forest, []float64{3.5}))
}

func TestForestImbalancedClasses(t *testing.T) {
	// 90/10 imbalance: balanced weighting should still let the minority
	// class dominate its own region
	X := make([][]float64, 0, 100)
	y := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		if i < 10 {
			X = append(X, []float64{10.0 + float64(i)})
			y = append(y, 1)
		} else {
			X = append(X, []float64{float64(i % 10)})
			y = append(y, 0)
		}
	}

	forest := NewRandomForest(testForestConfig())
	require.NoError(t, forest.Fit(X, y))

	proba := forest.PredictProba([]float64{15.0})
	assert.Greater(t, proba[1], 0.5)
}

func TestForestFitValidation(t *testing.T) {
	tests := []struct {
		name string
		X    [][]float64
		y    []int
	}{
		{name: "empty training set", X: nil, y: nil},
		{name: "length mismatch", X: [][]float64{{1}, {2}}, y: []int{1}},
		{name: "label out of range", X: [][]float64{{1}, {2}}, y: []int{1, 2}},
		{name: "negative label", X: [][]float64{{1}, {2}}, y: []int{0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := NewRandomForest(testForestConfig())
			assert.Error(t, forest.Fit(tt.X, tt.y))
		})
	}
}

func TestPredictLabel(t *testing.T) {
	X, y := thresholdDataset(200)
	forest := NewRandomForest(testForestConfig())
	require.NoError(t, forest.Fit(X, y))

	assert.Equal(t, 1, PredictLabel(forest, []float64{0.9, 1.0, -1.0}))
	assert.Equal(t, 0, PredictLabel(forest, []float64{0.1, 1.0, -1.0}))
}

func TestNewClassifier(t *testing.T) {
	cfg := &config.TrainingConfig{Classifier: "random_forest", Forest: testForestConfig()}
	clf, err := NewClassifier(cfg)
	require.NoError(t, err)
	assert.IsType(t, &RandomForest{}, clf)

	cfg.Classifier = "gradient_boosting"
	_, err = NewClassifier(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownClassifier)
}
