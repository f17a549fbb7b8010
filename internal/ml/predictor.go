package ml

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/signal-filter/internal/config"
	"github.com/yourusername/signal-filter/internal/features"
	"github.com/yourusername/signal-filter/internal/models"
)

// NeutralScore is returned whenever a real probability cannot be produced.
// Absence of a trained model must never block the caller, only make it
// maximally uncertain.
const NeutralScore = 0.5

// Predictor loads the persisted model on demand and produces a win
// probability for a single feature set. The artifact is re-read from disk on
// every call; there is no cross-invocation caching.
type Predictor struct {
	artifactPath string
	logger       *logrus.Logger
}

// NewPredictor creates a predictor bound to the configured artifact path
func NewPredictor(cfg *config.Config, log *logrus.Logger) *Predictor {
	return &Predictor{artifactPath: cfg.ArtifactPath(), logger: log}
}

// Score returns P(win) in [0,1] for a JSON-encoded feature map. It never
// fails: a missing artifact, corrupt artifact, malformed feature map, or
// inference fault all degrade to NeutralScore with an explanatory error.
func (p *Predictor) Score(featuresJSON string) (result models.PredictResult) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithField("panic", r).Error("Inference fault, falling back to neutral score")
			result = models.PredictResult{Score: NeutralScore, Error: fmt.Sprintf("inference failed: %v", r)}
		}
	}()

	art, err := LoadArtifact(p.artifactPath)
	if err != nil {
		p.logger.WithError(err).Warn("Falling back to neutral score")
		return models.PredictResult{Score: NeutralScore, Error: err.Error()}
	}

	vec, err := features.Vectorize(json.RawMessage(featuresJSON))
	if err != nil {
		p.logger.WithError(err).Warn("Falling back to neutral score")
		return models.PredictResult{Score: NeutralScore, Error: err.Error()}
	}

	proba := art.Forest.PredictProba(vec)
	if len(proba) < numClasses {
		// A model fit on a single class has no basis for a win probability
		p.logger.Warn("Single-class model, falling back to neutral score")
		return models.PredictResult{Score: NeutralScore, Error: "model was trained on a single class"}
	}

	score := proba[1]
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}
	return models.PredictResult{Score: score}
}
