package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/gdpforecast/internal/cleaning"
	"github.com/Alias1177/gdpforecast/internal/config"
	"github.com/Alias1177/gdpforecast/internal/dataset"
	"github.com/Alias1177/gdpforecast/internal/evaluation"
	"github.com/Alias1177/gdpforecast/internal/model"
	"github.com/Alias1177/gdpforecast/internal/regression"
)

// Engine runs the load, clean, split, fit and evaluate stages
type Engine struct {
	config  *config.Config
	loader  *dataset.Loader
	cleaner *cleaning.Cleaner
	logger  zerolog.Logger
}

// NewEngine creates an engine from configuration. The outlier table is read
// from cfg.OutlierFile when set.
func NewEngine(cfg *config.Config) (*Engine, error) {
	var corrections cleaning.Corrections
	if cfg.ApplyOutlierFix {
		corrections = cleaning.DefaultCorrections()
		if cfg.OutlierFile != "" {
			c, err := cleaning.LoadCorrections(cfg.OutlierFile)
			if err != nil {
				return nil, err
			}
			corrections = c
		}
	}

	return &Engine{
		config:  cfg,
		loader:  dataset.NewLoader(time.Duration(cfg.RequestTimeout) * time.Second),
		cleaner: cleaning.NewCleaner(corrections),
		logger:  log.With().Str("component", "engine").Logger(),
	}, nil
}

// WithLoader replaces the dataset loader
func (e *Engine) WithLoader(l *dataset.Loader) *Engine {
	e.loader = l
	return e
}

// Run executes one analysis over source and returns the report
func (e *Engine) Run(ctx context.Context, source string) (*model.Report, error) {
	// 1. Load
	raw, err := e.loader.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	e.logSummary(raw)

	// 2. Clean
	cleaned, stats, err := e.cleaner.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}

	// 3. Split
	train, test, err := dataset.SplitChronological(cleaned, e.config.TrainRatio)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	e.logger.Info().
		Int("rows", cleaned.Len()).
		Int("train", train.Len()).
		Int("test", test.Len()).
		Str("split_date", test.Rows[0].Date.Format(model.DateLayout)).
		Msg("Split dataset")

	// 4. Fit
	linear, err := regression.FitLinear(train, model.GDP, e.config.Predictors)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	forest, err := regression.FitForest(ctx, train, model.GDP, e.config.Predictors, e.forestOptions())
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	report := &model.Report{
		Source:       source,
		Rows:         cleaned.Len(),
		FilledCells:  stats.TotalFilled(),
		Corrected:    stats.Corrected,
		TrainRows:    train.Len(),
		TestRows:     test.Len(),
		SplitDate:    test.Rows[0].Date,
		Coefficients: linear.Coefficients(),
		Importances:  forest.Importances(),
	}

	// 5. Predict and evaluate
	actual := test.Column(model.GDP)
	for _, m := range []regression.Model{linear, forest} {
		predicted := m.Predict(test)
		score, err := evaluation.Evaluate(m.Name(), predicted, actual)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", m.Name(), err)
		}
		e.logger.Info().
			Str("model", score.Model).
			Float64("rmse", score.RMSE).
			Float64("mae", score.MAE).
			Float64("r2", score.R2).
			Msg("Evaluated model")

		report.Scores = append(report.Scores, score)
		report.Forecasts = append(report.Forecasts, model.Forecast{
			Model:     m.Name(),
			Dates:     test.Dates(),
			Actual:    append([]float64(nil), actual...),
			Predicted: predicted,
		})
	}

	return report, nil
}

func (e *Engine) forestOptions() regression.ForestOptions {
	f := e.config.Forest
	return regression.ForestOptions{
		Trees:           f.Trees,
		MaxFeatures:     f.MaxFeatures,
		MinSamplesSplit: f.MinSamplesSplit,
		MinSamplesLeaf:  f.MinSamplesLeaf,
		MaxDepth:        f.MaxDepth,
		Seed:            f.Seed,
		Workers:         f.Workers,
	}
}

func (e *Engine) logSummary(t *model.Table) {
	for _, s := range dataset.Summarize(t) {
		e.logger.Debug().
			Str("field", s.Field.String()).
			Int("count", s.Count).
			Int("missing", s.Missing).
			Float64("mean", s.Mean).
			Float64("std_dev", s.StdDev).
			Float64("min", s.Min).
			Float64("max", s.Max).
			Msg("Column summary")
	}
}

// FormatResults renders a report as plain text
func (e *Engine) FormatResults(report *model.Report) string {
	if report == nil {
		return "No forecast results available"
	}

	output := "\n===== GDP FORECAST EVALUATION =====\n"
	output += fmt.Sprintf("Source: %s\n", report.Source)
	output += fmt.Sprintf("Rows: %d (filled %d missing cells, corrected %d outliers)\n",
		report.Rows, report.FilledCells, report.Corrected)
	output += fmt.Sprintf("Train rows: %d | Test rows: %d | Test starts: %s\n",
		report.TrainRows, report.TestRows, report.SplitDate.Format(model.DateLayout))

	output += "\nLinear model coefficients:\n"
	for _, c := range report.Coefficients {
		output += fmt.Sprintf("- %s: %.6f\n", c.Term, c.Value)
	}

	if len(report.Importances) > 0 {
		output += "\nRandom forest feature importance:\n"
		for _, imp := range report.Importances {
			output += fmt.Sprintf("- %s: %.3f\n", imp.Field, imp.Value)
		}
	}

	output += "\nTest set error:\n"
	for _, s := range report.Scores {
		output += fmt.Sprintf("- %s: RMSE %.4f | MAE %.4f | R² %.4f\n", s.Model, s.RMSE, s.MAE, s.R2)
	}

	linear, okLinear := report.Score(regression.LinearName)
	forest, okForest := report.Score(regression.ForestName)
	if okLinear && okForest {
		better := regression.LinearName
		if forest.RMSE < linear.RMSE {
			better = regression.ForestName
		}
		output += fmt.Sprintf("\nLower RMSE: %s\n", better)
	}

	return output
}
