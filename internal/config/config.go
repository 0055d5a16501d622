package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/gdpforecast/internal/model"
)

// Config holds all application configuration
type Config struct {
	DataPath        string        `env:"DATA_PATH" envDefault:"data/macro.csv"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	TrainRatio      float64       `env:"TRAIN_RATIO" envDefault:"0.8"`
	Predictors      []model.Field `env:"PREDICTORS" envDefault:"GFCF,GovExp,HouseExp"`
	ApplyOutlierFix bool          `env:"APPLY_OUTLIER_FIX" envDefault:"true"`
	OutlierFile     string        `env:"OUTLIER_FILE"` // YAML correction table, built-in table when empty
	RequestTimeout  int           `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	Forest          ForestConfig
}

// ForestConfig holds the random forest hyperparameters
type ForestConfig struct {
	Trees           int   `env:"RF_TREES" envDefault:"100"`
	Seed            int64 `env:"RF_SEED" envDefault:"42"`
	MaxFeatures     int   `env:"RF_MAX_FEATURES" envDefault:"0"` // 0 means every predictor
	MinSamplesSplit int   `env:"RF_MIN_SAMPLES_SPLIT" envDefault:"2"`
	MinSamplesLeaf  int   `env:"RF_MIN_SAMPLES_LEAF" envDefault:"1"`
	MaxDepth        int   `env:"RF_MAX_DEPTH" envDefault:"0"` // 0 means unbounded
	Workers         int   `env:"RF_WORKERS" envDefault:"0"`   // 0 means runtime.NumCPU()
}

// DefaultPredictors are the regressors of GDP used by both models
var DefaultPredictors = []model.Field{model.GFCF, model.GovExp, model.HouseExp}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		DataPath:        "data/macro.csv",
		LogLevel:        "info",
		TrainRatio:      0.8,
		Predictors:      append([]model.Field(nil), DefaultPredictors...),
		ApplyOutlierFix: true,
		RequestTimeout:  30,
		Forest: ForestConfig{
			Trees:           100,
			Seed:            42,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
		},
	}
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	def := Default()
	var cfg Config
	env := &envReader{}

	cfg.DataPath = getEnvWithDefault("DATA_PATH", def.DataPath)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", def.LogLevel)
	cfg.TrainRatio = env.getFloat("TRAIN_RATIO", def.TrainRatio)
	cfg.ApplyOutlierFix = env.getBool("APPLY_OUTLIER_FIX", def.ApplyOutlierFix)
	cfg.OutlierFile = os.Getenv("OUTLIER_FILE")
	cfg.RequestTimeout = env.getInt("REQUEST_TIMEOUT", def.RequestTimeout)

	cfg.Forest.Trees = env.getInt("RF_TREES", def.Forest.Trees)
	cfg.Forest.Seed = env.getInt64("RF_SEED", def.Forest.Seed)
	cfg.Forest.MaxFeatures = env.getInt("RF_MAX_FEATURES", def.Forest.MaxFeatures)
	cfg.Forest.MinSamplesSplit = env.getInt("RF_MIN_SAMPLES_SPLIT", def.Forest.MinSamplesSplit)
	cfg.Forest.MinSamplesLeaf = env.getInt("RF_MIN_SAMPLES_LEAF", def.Forest.MinSamplesLeaf)
	cfg.Forest.MaxDepth = env.getInt("RF_MAX_DEPTH", def.Forest.MaxDepth)
	cfg.Forest.Workers = env.getInt("RF_WORKERS", def.Forest.Workers)
	if env.err != nil {
		return nil, env.err
	}

	predictors, err := parsePredictors(getEnvWithDefault("PREDICTORS", ""))
	if err != nil {
		return nil, err
	}
	if len(predictors) == 0 {
		predictors = def.Predictors
	}
	cfg.Predictors = predictors

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration describes a runnable analysis
func (c *Config) Validate() error {
	if c.TrainRatio <= 0 || c.TrainRatio >= 1 {
		return fmt.Errorf("TRAIN_RATIO must be in (0, 1), got %v", c.TrainRatio)
	}
	if len(c.Predictors) == 0 {
		return fmt.Errorf("at least one predictor is required")
	}
	seen := make(map[model.Field]bool, len(c.Predictors))
	for _, f := range c.Predictors {
		if f == model.GDP {
			return fmt.Errorf("GDP is the target and cannot be a predictor")
		}
		if seen[f] {
			return fmt.Errorf("duplicate predictor %s", f)
		}
		seen[f] = true
	}
	if c.Forest.Trees <= 0 {
		return fmt.Errorf("RF_TREES must be positive, got %d", c.Forest.Trees)
	}
	if c.Forest.MaxFeatures < 0 || c.Forest.MaxFeatures > len(c.Predictors) {
		return fmt.Errorf("RF_MAX_FEATURES must be between 0 and %d, got %d", len(c.Predictors), c.Forest.MaxFeatures)
	}
	if c.Forest.MinSamplesSplit < 2 {
		return fmt.Errorf("RF_MIN_SAMPLES_SPLIT must be at least 2, got %d", c.Forest.MinSamplesSplit)
	}
	if c.Forest.MinSamplesLeaf < 1 {
		return fmt.Errorf("RF_MIN_SAMPLES_LEAF must be at least 1, got %d", c.Forest.MinSamplesLeaf)
	}
	if c.Forest.MaxDepth < 0 || c.Forest.Workers < 0 {
		return fmt.Errorf("RF_MAX_DEPTH and RF_WORKERS must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %d", c.RequestTimeout)
	}
	return nil
}

func parsePredictors(value string) ([]model.Field, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var fields []model.Field
	for _, name := range strings.Split(value, ",") {
		f, err := model.ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("PREDICTORS: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed variables and keeps the first malformed one.
// A variable that is unset or empty takes its default.
type envReader struct {
	err error
}

func (r *envReader) lookup(key string, parse func(string) error) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" || r.err != nil {
		return false
	}
	if err := parse(value); err != nil {
		r.err = fmt.Errorf("%s: invalid value %q: %w", key, value, err)
		return false
	}
	return true
}

func (r *envReader) getInt(key string, defaultValue int) int {
	var v int
	if r.lookup(key, func(s string) (err error) { v, err = strconv.Atoi(s); return }) {
		return v
	}
	return defaultValue
}

func (r *envReader) getInt64(key string, defaultValue int64) int64 {
	var v int64
	if r.lookup(key, func(s string) (err error) { v, err = strconv.ParseInt(s, 10, 64); return }) {
		return v
	}
	return defaultValue
}

func (r *envReader) getFloat(key string, defaultValue float64) float64 {
	var v float64
	if r.lookup(key, func(s string) (err error) { v, err = strconv.ParseFloat(s, 64); return }) {
		return v
	}
	return defaultValue
}

func (r *envReader) getBool(key string, defaultValue bool) bool {
	var v bool
	if r.lookup(key, func(s string) (err error) { v, err = strconv.ParseBool(s); return }) {
		return v
	}
	return defaultValue
}
