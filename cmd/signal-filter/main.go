// Package main provides the signal-filter CLI: a short-lived subprocess that
// trains the admission classifier or scores one feature set, emitting a
// single JSON record on stdout for the invoking process to parse.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/signal-filter/internal/config"
	"github.com/yourusername/signal-filter/internal/logger"
	"github.com/yourusername/signal-filter/internal/ml"
	"github.com/yourusername/signal-filter/internal/models"
	"github.com/yourusername/signal-filter/internal/training"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	log        *logrus.Logger

	// out receives the single result record; tests swap it for a buffer
	out io.Writer = os.Stdout
)

// errReported marks errors whose structured record is already on stdout, so
// main only sets the exit code
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:           "signal-filter",
	Short:         "Train and serve the trading-signal admission classifier",
	Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Local .env overrides are optional
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		log = logger.NewLogger(cfg.App.LogLevel, cfg.IsProduction())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("usage: signal-filter <train|predict|status> [args]")
	},
}

var trainCmd = &cobra.Command{
	Use:   "train <samples-file>",
	Short: "Train the classifier on a samples file and persist the artifact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics, err := training.NewTrainer(cfg, log).Run(args[0])
		if err != nil {
			emit(models.TrainResult{Success: false, Error: err.Error()})
			return errReported
		}
		emit(models.TrainResult{Success: true, Metrics: metrics})
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict <features-json>",
	Short: "Score one feature set against the persisted model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// A fallback score is a valid answer, not a process failure
		emit(ml.NewPredictor(cfg, log).Score(args[0]))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show metrics from the most recent training run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics, err := training.ReadStatus(cfg.StatusPath())
		if err != nil {
			emitError(err)
			return errReported
		}
		emit(metrics)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(trainCmd, predictCmd, statusCmd)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run drives one invocation and returns the process exit code. Every outcome,
// including a failed one, leaves exactly one JSON record on w.
func run(args []string, w io.Writer) int {
	out = w
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			emitError(err)
		}
		return 1
	}
	return 0
}

func emit(v any) {
	if err := json.NewEncoder(out).Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write result: %v\n", err)
	}
}

func emitError(err error) {
	emit(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}
