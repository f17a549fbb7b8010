// Package ml provides the binary classifier, its persistence, and the scorer
// used by the admission filter.
package ml

import "errors"

var (
	// ErrModelNotFound indicates no trained artifact exists yet
	ErrModelNotFound = errors.New("model artifact not found")

	// ErrUnknownClassifier indicates the configured classifier kind has no
	// registered implementation
	ErrUnknownClassifier = errors.New("unknown classifier")

	// ErrIncompatibleArtifact indicates a persisted artifact that cannot be
	// scored against safely
	ErrIncompatibleArtifact = errors.New("incompatible model artifact")
)
