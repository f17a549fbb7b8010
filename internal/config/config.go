// Package config provides configuration management for the signal-filter tool.
package config

import (
	"path/filepath"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Model    ModelConfig    `mapstructure:"model" validate:"required"`
	Training TrainingConfig `mapstructure:"training" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ModelConfig locates the persisted artifacts. Paths are explicit configuration
// rather than constants so tests can point them at temporary directories.
type ModelConfig struct {
	Dir          string `mapstructure:"dir" validate:"required"`
	ArtifactFile string `mapstructure:"artifact_file" validate:"required"`
	StatusFile   string `mapstructure:"status_file" validate:"required"`
}

// TrainingConfig represents dataset thresholds, cross-validation layout and
// classifier hyperparameters for a training run
type TrainingConfig struct {
	Classifier  string       `mapstructure:"classifier" validate:"required"`
	MinSamples  int          `mapstructure:"min_samples" validate:"required,gte=10"`
	MaxFolds    int          `mapstructure:"max_folds" validate:"required,gte=1,lte=20"`
	MinFoldSize int          `mapstructure:"min_fold_size" validate:"required,gt=0"`
	Forest      ForestConfig `mapstructure:"forest" validate:"required"`
}

// ForestConfig represents random-forest hyperparameters
type ForestConfig struct {
	Trees           int   `mapstructure:"trees" json:"trees" validate:"required,gt=0,lte=1000"`
	MaxDepth        int   `mapstructure:"max_depth" json:"maxDepth" validate:"required,gt=0,lte=64"`
	MinSamplesSplit int   `mapstructure:"min_samples_split" json:"minSamplesSplit" validate:"required,gte=2"`
	MinSamplesLeaf  int   `mapstructure:"min_samples_leaf" json:"minSamplesLeaf" validate:"required,gte=1"`
	Seed            int64 `mapstructure:"seed" json:"seed"`
}

// Default returns the configuration used when no file or environment
// overrides are present. Thresholds and hyperparameters match the deployed
// admission filter.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "signal-filter",
			Environment: "development",
			LogLevel:    "info",
		},
		Model: ModelConfig{
			Dir:          "/tmp/models",
			ArtifactFile: "ai_filter.json",
			StatusFile:   "ai_status.json",
		},
		Training: TrainingConfig{
			Classifier:  "random_forest",
			MinSamples:  50,
			MaxFolds:    5,
			MinFoldSize: 20,
			Forest: ForestConfig{
				Trees:           100,
				MaxDepth:        10,
				MinSamplesSplit: 5,
				MinSamplesLeaf:  2,
				Seed:            42,
			},
		},
	}
}

// ArtifactPath returns the full path of the trained model artifact
func (c *Config) ArtifactPath() string {
	return filepath.Join(c.Model.Dir, c.Model.ArtifactFile)
}

// StatusPath returns the full path of the training status record
func (c *Config) StatusPath() string {
	return filepath.Join(c.Model.Dir, c.Model.StatusFile)
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
