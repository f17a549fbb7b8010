package training

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/signal-filter/internal/config"
	"github.com/yourusername/signal-filter/internal/ml"
)

// FoldResult holds the outcome of one walk-forward fold
type FoldResult struct {
	Fold      int     `json:"fold"`
	TrainSize int     `json:"trainSize"`
	TestSize  int     `json:"testSize"`
	Metrics   Metrics `json:"metrics"`
}

// WalkForwardResult holds per-fold results and their mean
type WalkForwardResult struct {
	Folds      []FoldResult `json:"folds"`
	Aggregated Metrics      `json:"aggregated"`
}

// foldSplit is one temporal fold: train on [0:trainEnd), test on
// [testStart:testEnd). trainEnd == testStart always, so every training index
// strictly precedes every test index.
type foldSplit struct {
	trainEnd  int
	testStart int
	testEnd   int
}

// FoldCount returns min(maxFolds, n/minFoldSize), floored to 1 so small
// datasets degrade to a single fold instead of a zero-split degenerate case
func FoldCount(n, maxFolds, minFoldSize int) int {
	k := n / minFoldSize
	if k > maxFolds {
		k = maxFolds
	}
	if k < 1 {
		k = 1
	}
	return k
}

// timeSeriesSplits lays out k trailing test blocks of size n/(k+1), each
// trained on everything chronologically before it. Unlike random k-fold this
// never leaks future information into past predictions.
func timeSeriesSplits(n, k int) []foldSplit {
	testSize := n / (k + 1)
	if testSize < 1 {
		return nil
	}

	splits := make([]foldSplit, 0, k)
	for i := 0; i < k; i++ {
		start := n - (k-i)*testSize
		splits = append(splits, foldSplit{
			trainEnd:  start,
			testStart: start,
			testEnd:   start + testSize,
		})
	}
	return splits
}

// RunWalkForward performs time-ordered cross-validation: a fresh classifier
// per fold, fitted on the fold's past and scored on its future, metrics
// averaged across folds. The result is diagnostic only and never gates the
// final fit.
func RunWalkForward(X [][]float64, y []int, cfg *config.TrainingConfig, log *logrus.Logger) (WalkForwardResult, error) {
	k := FoldCount(len(X), cfg.MaxFolds, cfg.MinFoldSize)
	splits := timeSeriesSplits(len(X), k)
	if len(splits) == 0 {
		return WalkForwardResult{}, fmt.Errorf("dataset of %d samples cannot be split into %d folds", len(X), k)
	}

	result := WalkForwardResult{Folds: make([]FoldResult, 0, len(splits))}
	folds := make([]Metrics, 0, len(splits))

	for i, split := range splits {
		clf, err := ml.NewClassifier(cfg)
		if err != nil {
			return WalkForwardResult{}, err
		}
		if err := clf.Fit(X[:split.trainEnd], y[:split.trainEnd]); err != nil {
			return WalkForwardResult{}, fmt.Errorf("fold %d fit failed: %w", i+1, err)
		}

		yTrue := y[split.testStart:split.testEnd]
		yPred := make([]int, 0, split.testEnd-split.testStart)
		for _, x := range X[split.testStart:split.testEnd] {
			yPred = append(yPred, ml.PredictLabel(clf, x))
		}

		m := Evaluate(yTrue, yPred)
		folds = append(folds, m)
		result.Folds = append(result.Folds, FoldResult{
			Fold:      i + 1,
			TrainSize: split.trainEnd,
			TestSize:  split.testEnd - split.testStart,
			Metrics:   m,
		})

		log.WithFields(logrus.Fields{
			"fold":       i + 1,
			"train_size": split.trainEnd,
			"test_size":  split.testEnd - split.testStart,
			"accuracy":   m.Accuracy,
			"f1":         m.F1,
		}).Debug("Walk-forward fold evaluated")
	}

	result.Aggregated = meanMetrics(folds)
	return result, nil
}
