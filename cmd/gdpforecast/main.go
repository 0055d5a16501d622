package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/gdpforecast/internal/config"
	"github.com/Alias1177/gdpforecast/internal/forecast"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("Forecast failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gdpforecast [path]",
		Short: "Compare OLS and random forest GDP forecasts",
		Long: `Loads the quarterly macro dataset, fills gaps and known outliers,
trains on the first 80% of rows and reports the RMSE of an OLS model and a
random forest on the remaining rows.

The dataset path (or http(s) URL) defaults to DATA_PATH.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if len(args) == 1 {
		cfg.DataPath = args[0]
	}

	// 2. Configure logging
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting GDP forecast")

	// 3. Print configuration
	printConfig(cfg)

	// 4. Run the analysis
	engine, err := forecast.NewEngine(cfg)
	if err != nil {
		return err
	}
	report, err := engine.Run(ctx, cfg.DataPath)
	if err != nil {
		return err
	}

	// 5. Display results
	fmt.Fprintln(cmd.OutOrStdout(), engine.FormatResults(report))
	return nil
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	// Set log level from config
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	predictors := make([]string, len(cfg.Predictors))
	for i, p := range cfg.Predictors {
		predictors[i] = p.String()
	}

	log.Info().
		Str("DataPath", cfg.DataPath).
		Float64("TrainRatio", cfg.TrainRatio).
		Str("Predictors", strings.Join(predictors, ",")).
		Bool("ApplyOutlierFix", cfg.ApplyOutlierFix).
		Str("OutlierFile", cfg.OutlierFile).
		Int("Trees", cfg.Forest.Trees).
		Int64("Seed", cfg.Forest.Seed).
		Int("MaxFeatures", cfg.Forest.MaxFeatures).
		Int("MinSamplesSplit", cfg.Forest.MinSamplesSplit).
		Int("MinSamplesLeaf", cfg.Forest.MinSamplesLeaf).
		Int("MaxDepth", cfg.Forest.MaxDepth).
		Msg("Configuration loaded")
}
