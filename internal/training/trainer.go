package training

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/signal-filter/internal/config"
	"github.com/yourusername/signal-filter/internal/dataset"
	"github.com/yourusername/signal-filter/internal/features"
	"github.com/yourusername/signal-filter/internal/ml"
	"github.com/yourusername/signal-filter/internal/models"
)

// Trainer owns one end-to-end training run: load, filter, evaluate, fit,
// persist. Failures that would produce a silently wrong model (unknown
// classifier, too little data) abort before anything is written; the prior
// artifact and status stay untouched.
type Trainer struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewTrainer creates a trainer for the given configuration
func NewTrainer(cfg *config.Config, log *logrus.Logger) *Trainer {
	return &Trainer{cfg: cfg, logger: log}
}

// Run trains on the samples file and returns the aggregated metrics report
func (t *Trainer) Run(samplesPath string) (*models.TrainingMetrics, error) {
	// Fail fast if the configured classifier has no implementation
	if _, err := ml.NewClassifier(&t.cfg.Training); err != nil {
		return nil, err
	}

	samples, err := dataset.LoadSamples(samplesPath)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Build(samples, t.cfg.Training.MinSamples, t.logger)
	if err != nil {
		return nil, err
	}
	t.logger.WithFields(logrus.Fields{
		"usable":  len(ds.X),
		"skipped": ds.Skipped,
		"total":   len(samples),
	}).Info("Dataset assembled")

	evaluation, err := RunWalkForward(ds.X, ds.Y, &t.cfg.Training, t.logger)
	if err != nil {
		return nil, err
	}

	// Full-data fit for deployment; the held-out evaluation above is
	// diagnostic only
	final, err := ml.NewClassifier(&t.cfg.Training)
	if err != nil {
		return nil, err
	}
	if err := final.Fit(ds.X, ds.Y); err != nil {
		return nil, fmt.Errorf("final fit failed: %w", err)
	}

	forest, ok := final.(*ml.RandomForest)
	if !ok {
		return nil, fmt.Errorf("%w: classifier %q does not support persistence",
			ml.ErrIncompatibleArtifact, t.cfg.Training.Classifier)
	}

	modelID := uuid.New()
	trainedAt := time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)

	artifact := &ml.Artifact{
		SchemaVersion: ml.ArtifactSchemaVersion,
		ModelID:       modelID,
		TrainedAt:     trainedAt,
		Classifier:    t.cfg.Training.Classifier,
		FeatureNames:  features.Names(),
		Forest:        forest,
	}
	if err := ml.SaveArtifact(t.cfg.ArtifactPath(), artifact); err != nil {
		return nil, err
	}

	metrics := &models.TrainingMetrics{
		Accuracy:       evaluation.Aggregated.Accuracy,
		Precision:      evaluation.Aggregated.Precision,
		Recall:         evaluation.Aggregated.Recall,
		F1:             evaluation.Aggregated.F1,
		NSamples:       len(ds.X),
		SkippedSamples: ds.Skipped,
		TrainedAt:      trainedAt,
		ModelID:        modelID.String(),
	}
	if err := WriteStatus(t.cfg.StatusPath(), metrics); err != nil {
		return nil, err
	}

	t.logger.WithFields(logrus.Fields{
		"model_id": metrics.ModelID,
		"accuracy": metrics.Accuracy,
		"f1":       metrics.F1,
		"samples":  metrics.NSamples,
	}).Info("Training run completed")
	return metrics, nil
}
