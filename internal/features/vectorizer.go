// Package features maps a sample's nested indicator map into the fixed-order
// numeric vector the classifier consumes. The order is load-bearing: the model
// carries no field names internally, so training and scoring must agree on it.
package features

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// VectorSize is the number of indicator fields in a feature vector
const VectorSize = 16

type field struct {
	Name    string
	Default float64
}

// Fields absent from the input take their default. Neutral indicators
// (rsi14, confidence) default to their mid-scale value 50.
var fields = [VectorSize]field{
	{"rsi14", 50},
	{"macdLine", 0},
	{"macdSignal", 0},
	{"macdHist", 0},
	{"bbUpper", 0},
	{"bbMiddle", 0},
	{"bbLower", 0},
	{"atr14", 0},
	{"ema12", 0},
	{"ema26", 0},
	{"volume24hChange", 0},
	{"priceChange1h", 0},
	{"priceChange4h", 0},
	{"priceChange24h", 0},
	{"spreadPct", 0},
	{"confidence", 50},
}

// Names returns the feature field names in vector order
func Names() []string {
	names := make([]string, VectorSize)
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Vectorize decodes a raw feature map and produces the fixed-order vector.
// The input may be a JSON object or a JSON-encoded string containing one; an
// absent featuresJson vectorizes to all defaults. A present but non-numeric
// value is an error that condemns the enclosing sample.
func Vectorize(raw json.RawMessage) ([]float64, error) {
	m, err := decodeMap(raw)
	if err != nil {
		return nil, err
	}
	return VectorizeMap(m)
}

// VectorizeMap produces the fixed-order vector from an already-decoded map
func VectorizeMap(m map[string]any) ([]float64, error) {
	vec := make([]float64, VectorSize)
	for i, f := range fields {
		value, ok := m[f.Name]
		if !ok {
			vec[i] = f.Default
			continue
		}
		coerced, err := coerce(value)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", f.Name, err)
		}
		vec[i] = coerced
	}
	return vec, nil
}

func decodeMap(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("invalid feature map: %w", err)
	}

	// Text-encoded maps carry one extra level of JSON encoding
	if text, ok := decoded.(string); ok {
		if err := json.Unmarshal([]byte(text), &decoded); err != nil {
			return nil, fmt.Errorf("invalid text-encoded feature map: %w", err)
		}
	}

	switch m := decoded.(type) {
	case map[string]any:
		return m, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("feature map must be an object, got %T", decoded)
	}
}

// coerce converts a decoded JSON value to float64. Numeric strings are
// accepted; booleans coerce to 0/1. Anything else is fatal for the sample.
func coerce(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric value %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("non-numeric value of type %T", value)
	}
}
