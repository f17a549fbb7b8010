// Package dataset loads raw sample files and assembles the parallel
// feature/label arrays used for training.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/signal-filter/internal/features"
	"github.com/yourusername/signal-filter/internal/models"
)

// Dataset holds parallel feature vectors and 0/1 labels in the original
// (chronological) sample order, plus the count of samples dropped for
// malformed features or labels.
type Dataset struct {
	X       [][]float64
	Y       []int
	Skipped int
}

// InsufficientDataError indicates too few usable samples for a statistically
// meaningful training run
type InsufficientDataError struct {
	Usable   int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough samples: %d usable, need %d", e.Usable, e.Required)
}

// LoadSamples reads a JSON array of samples from disk
func LoadSamples(path string) ([]models.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples file: %w", err)
	}

	var samples []models.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("failed to parse samples file: %w", err)
	}
	return samples, nil
}

// Build filters raw samples down to complete, labeled ones and vectorizes
// them, preserving relative order. Samples whose features or label fail to
// parse are dropped with a warning rather than failing the run; the drop
// count is surfaced on the returned Dataset. Fewer than minSamples usable
// samples is fatal.
func Build(samples []models.Sample, minSamples int, log *logrus.Logger) (*Dataset, error) {
	trainable := make([]models.Sample, 0, len(samples))
	for _, s := range samples {
		if s.IsComplete && s.Labeled() {
			trainable = append(trainable, s)
		}
	}

	if len(trainable) < minSamples {
		return nil, &InsufficientDataError{Usable: len(trainable), Required: minSamples}
	}

	ds := &Dataset{
		X: make([][]float64, 0, len(trainable)),
		Y: make([]int, 0, len(trainable)),
	}
	for i, s := range trainable {
		vec, err := features.Vectorize(s.FeaturesJSON)
		if err != nil {
			ds.Skipped++
			log.WithError(err).WithField("sample", i).Warn("Dropping sample with malformed features")
			continue
		}
		label, err := s.Label()
		if err != nil {
			ds.Skipped++
			log.WithError(err).WithField("sample", i).Warn("Dropping sample with malformed label")
			continue
		}
		ds.X = append(ds.X, vec)
		ds.Y = append(ds.Y, label)
	}

	// Parse drops can erode the set below the floor after the initial check
	if len(ds.X) < minSamples {
		return nil, &InsufficientDataError{Usable: len(ds.X), Required: minSamples}
	}

	return ds, nil
}
