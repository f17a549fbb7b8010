package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ArtifactSchemaVersion guards against scoring with an artifact written by an
// incompatible build
const ArtifactSchemaVersion = 1

// Artifact wraps the serialized forest with enough metadata to reject
// incompatible files at load time instead of mis-scoring.
type Artifact struct {
	SchemaVersion int           `json:"schemaVersion"`
	ModelID       uuid.UUID     `json:"modelId"`
	TrainedAt     string        `json:"trainedAt"`
	Classifier    string        `json:"classifier"`
	FeatureNames  []string      `json:"featureNames"`
	Forest        *RandomForest `json:"forest"`
}

// SaveArtifact persists the artifact, replacing any prior one. The write is
// atomic so a concurrent reader observes the previous model or the new one,
// never a torn file.
func SaveArtifact(path string, art *Artifact) error {
	data, err := json.Marshal(art)
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	return WriteFileAtomic(path, data, 0o644)
}

// LoadArtifact reads and validates a persisted artifact
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	art := &Artifact{}
	if err := json.Unmarshal(data, art); err != nil {
		return nil, fmt.Errorf("corrupt artifact: %w", err)
	}
	if art.SchemaVersion != ArtifactSchemaVersion {
		return nil, fmt.Errorf("%w: schema version %d", ErrIncompatibleArtifact, art.SchemaVersion)
	}
	if art.Forest == nil || art.Forest.NumFeatures != len(art.FeatureNames) {
		return nil, fmt.Errorf("%w: feature layout mismatch", ErrIncompatibleArtifact)
	}
	return art, nil
}

// WriteFileAtomic writes data via a temp file in the target directory
// followed by a rename. Directory creation is idempotent.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
