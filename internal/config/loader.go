// Package config provides configuration management for the signal-filter tool.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from an optional YAML file and environment
// variables. It expands environment variable placeholders in the YAML file
// (${VAR_NAME}) and falls back to Default() for anything left unset. A missing
// config file is not an error; the tool is expected to run with defaults when
// invoked as a subprocess.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix("SIGNAL_FILTER")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		// Expand environment variables in the configuration (${VAR} syntax)
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("app.name", def.App.Name)
	v.SetDefault("app.environment", def.App.Environment)
	v.SetDefault("app.log_level", def.App.LogLevel)

	v.SetDefault("model.dir", def.Model.Dir)
	v.SetDefault("model.artifact_file", def.Model.ArtifactFile)
	v.SetDefault("model.status_file", def.Model.StatusFile)

	v.SetDefault("training.classifier", def.Training.Classifier)
	v.SetDefault("training.min_samples", def.Training.MinSamples)
	v.SetDefault("training.max_folds", def.Training.MaxFolds)
	v.SetDefault("training.min_fold_size", def.Training.MinFoldSize)
	v.SetDefault("training.forest.trees", def.Training.Forest.Trees)
	v.SetDefault("training.forest.max_depth", def.Training.Forest.MaxDepth)
	v.SetDefault("training.forest.min_samples_split", def.Training.Forest.MinSamplesSplit)
	v.SetDefault("training.forest.min_samples_leaf", def.Training.Forest.MinSamplesLeaf)
	v.SetDefault("training.forest.seed", def.Training.Forest.Seed)
}
