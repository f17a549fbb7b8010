package training

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yourusername/signal-filter/internal/ml"
	"github.com/yourusername/signal-filter/internal/models"
)

// WriteStatus persists the latest training metrics as pretty-printed JSON,
// fully overwriting any prior record. The write is atomic so a concurrent
// reader never sees a partial file.
func WriteStatus(path string, m *models.TrainingMetrics) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	if err := ml.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write status: %w", err)
	}
	return nil
}

// ReadStatus loads the status record of the most recent training run
func ReadStatus(path string) (*models.TrainingMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no training status found: %w", err)
		}
		return nil, fmt.Errorf("failed to read status: %w", err)
	}

	m := &models.TrainingMetrics{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("corrupt status file: %w", err)
	}
	return m, nil
}
