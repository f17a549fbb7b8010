package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig points the model directory at a per-test location so
// invocations cannot see artifacts from other tests
func writeConfig(t *testing.T, modelDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("model:\n  dir: %s\ntraining:\n  forest:\n    trees: 30\n", modelDir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeSamples(t *testing.T, n int) string {
	t.Helper()

	samples := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		rsi := 20 + (i%10)*7
		label := 0
		if rsi > 50 {
			label = 1
		}
		samples = append(samples, map[string]any{
			"featuresJson": map[string]any{"rsi14": rsi},
			"isComplete":   true,
			"labelWin":     label,
		})
	}

	data, err := json.Marshal(samples)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "samples.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// runCLI invokes the dispatcher and decodes the single JSON record it must
// leave on stdout regardless of outcome
func runCLI(t *testing.T, args ...string) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	code := run(args, &buf)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record),
		"stdout must carry exactly one JSON record, got %q", buf.String())
	return code, record
}

func TestPredictWithoutModel(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	code, record := runCLI(t, "--config", cfgPath, "predict", `{"rsi14": 70}`)
	assert.Zero(t, code)
	assert.Equal(t, 0.5, record["score"])
	assert.NotEmpty(t, record["error"])
}

func TestUnknownSubcommand(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	code, record := runCLI(t, "--config", cfgPath, "score", `{}`)
	assert.Equal(t, 1, code)
	assert.Contains(t, record["error"], "unknown command")
}

func TestBareInvocation(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	code, record := runCLI(t, "--config", cfgPath)
	assert.Equal(t, 1, code)
	assert.Contains(t, record["error"], "usage")
}

func TestTrainPredictStatusFlow(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())
	samples := writeSamples(t, 80)

	code, record := runCLI(t, "--config", cfgPath, "train", samples)
	require.Zero(t, code)
	assert.Equal(t, true, record["success"])
	metrics, ok := record["metrics"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(80), metrics["nSamples"])

	code, record = runCLI(t, "--config", cfgPath, "predict", `{"rsi14": 76}`)
	require.Zero(t, code)
	assert.NotContains(t, record, "error")
	score, ok := record["score"].(float64)
	require.True(t, ok)
	assert.Greater(t, score, 0.5)

	code, record = runCLI(t, "--config", cfgPath, "status")
	require.Zero(t, code)
	assert.Equal(t, float64(80), record["nSamples"])
	assert.Equal(t, metrics["modelId"], record["modelId"])
}

func TestTrainInsufficientSamples(t *testing.T) {
	modelDir := t.TempDir()
	cfgPath := writeConfig(t, modelDir)
	samples := writeSamples(t, 30)

	code, record := runCLI(t, "--config", cfgPath, "train", samples)
	assert.Equal(t, 1, code)
	assert.Equal(t, false, record["success"])
	assert.Contains(t, record["error"], "not enough samples")
	assert.NoFileExists(t, filepath.Join(modelDir, "ai_filter.json"))
}

func TestStatusWithoutTrainingRun(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	code, record := runCLI(t, "--config", cfgPath, "status")
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, record["error"])
}
