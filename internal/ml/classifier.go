package ml

import (
	"fmt"

	"github.com/yourusername/signal-filter/internal/config"
)

// Classifier is a supervised binary classifier over {loss, win}. The pipeline
// depends on this interface only, so the concrete algorithm can be swapped
// without touching the training or scoring code.
type Classifier interface {
	// Fit trains on parallel feature vectors and 0/1 labels
	Fit(X [][]float64, y []int) error
	// PredictProba returns one probability per class in Classes order. A
	// classifier fit on a single class returns a one-column distribution.
	PredictProba(x []float64) []float64
	// Classes returns the distinct labels seen at fit time, ascending
	Classes() []int
}

// constructors maps configured classifier kinds to implementations. A kind
// with no registered constructor is the Go analogue of a missing ML
// dependency and is fatal to training.
var constructors = map[string]func(cfg *config.TrainingConfig) Classifier{
	"random_forest": func(cfg *config.TrainingConfig) Classifier {
		return NewRandomForest(cfg.Forest)
	},
}

// NewClassifier builds a fresh, unfitted classifier of the configured kind
func NewClassifier(cfg *config.TrainingConfig) (Classifier, error) {
	build, ok := constructors[cfg.Classifier]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClassifier, cfg.Classifier)
	}
	return build(cfg), nil
}

// PredictLabel picks the most probable class, resolving ties to the lower one.
// The probability columns are indexed by the classifier's seen classes, so a
// single-class fit always predicts that class.
func PredictLabel(c Classifier, x []float64) int {
	proba := c.PredictProba(x)
	best := 0
	for i, p := range proba {
		if p > proba[best] {
			best = i
		}
	}
	return c.Classes()[best]
}
