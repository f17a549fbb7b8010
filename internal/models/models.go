// Package models defines the domain types shared across the training and
// scoring pipeline.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Sample is one historical trading-signal observation. FeaturesJSON is kept
// raw because upstream writers emit it either as a JSON object or as a
// JSON-encoded string; LabelWin is kept raw because it arrives as a bool, a
// 0/1 number, or null.
type Sample struct {
	FeaturesJSON json.RawMessage `json:"featuresJson"`
	IsComplete   bool            `json:"isComplete"`
	LabelWin     json.RawMessage `json:"labelWin,omitempty"`
}

// Labeled reports whether the sample carries an outcome label
func (s Sample) Labeled() bool {
	trimmed := bytes.TrimSpace(s.LabelWin)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Label decodes the outcome label into 0 (loss) or 1 (win)
func (s Sample) Label() (int, error) {
	trimmed := bytes.TrimSpace(s.LabelWin)
	switch string(trimmed) {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	f, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid labelWin %s", trimmed)
	}
	label := int(math.Trunc(f))
	if label != 0 && label != 1 {
		return 0, fmt.Errorf("labelWin %s is not a binary outcome", trimmed)
	}
	return label, nil
}

// TrainingMetrics is the status record persisted after each training run and
// echoed to the caller. It is overwritten wholesale; no history is retained.
type TrainingMetrics struct {
	Accuracy       float64 `json:"accuracy"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
	NSamples       int     `json:"nSamples"`
	SkippedSamples int     `json:"skippedSamples"`
	TrainedAt      string  `json:"trainedAt"`
	ModelID        string  `json:"modelId"`
}

// TrainResult is the single JSON record emitted by the train command
type TrainResult struct {
	Success bool             `json:"success"`
	Metrics *TrainingMetrics `json:"metrics,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// PredictResult is the single JSON record emitted by the predict command.
// Score is always usable; Error explains a 0.5 fallback when set.
type PredictResult struct {
	Score float64 `json:"score"`
	Error string  `json:"error,omitempty"`
}
