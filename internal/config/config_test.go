package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/gdpforecast/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATA_PATH", "TRAIN_RATIO", "PREDICTORS", "RF_TREES", "RF_SEED", "APPLY_OUTLIER_FIX"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/macro.csv", cfg.DataPath)
	assert.Equal(t, 0.8, cfg.TrainRatio)
	assert.Equal(t, DefaultPredictors, cfg.Predictors)
	assert.True(t, cfg.ApplyOutlierFix)
	assert.Equal(t, 100, cfg.Forest.Trees)
	assert.Equal(t, int64(42), cfg.Forest.Seed)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATA_PATH", "/tmp/other.csv")
	t.Setenv("TRAIN_RATIO", "0.75")
	t.Setenv("PREDICTORS", "gfcf, UNEM")
	t.Setenv("APPLY_OUTLIER_FIX", "false")
	t.Setenv("RF_TREES", "25")
	t.Setenv("RF_SEED", "7")
	t.Setenv("RF_MAX_FEATURES", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.csv", cfg.DataPath)
	assert.Equal(t, 0.75, cfg.TrainRatio)
	assert.Equal(t, []model.Field{model.GFCF, model.UNEM}, cfg.Predictors)
	assert.False(t, cfg.ApplyOutlierFix)
	assert.Equal(t, 25, cfg.Forest.Trees)
	assert.Equal(t, int64(7), cfg.Forest.Seed)
	assert.Equal(t, 1, cfg.Forest.MaxFeatures)
}

func TestLoadRejectsUnknownPredictor(t *testing.T) {
	t.Setenv("PREDICTORS", "GFCF,Exports")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Exports")
}

func TestLoadBoolSpellings(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "TRUE", want: true},
		{value: "True", want: true},
		{value: "1", want: true},
		{value: "FALSE", want: false},
		{value: "0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("APPLY_OUTLIER_FIX", tt.value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ApplyOutlierFix)
		})
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "int with suffix", key: "RF_SEED", value: "42x"},
		{name: "seed beyond int64", key: "RF_SEED", value: "9223372036854775808"},
		{name: "int as float", key: "RF_TREES", value: "10.5"},
		{name: "decimal comma", key: "TRAIN_RATIO", value: "0,75"},
		{name: "bool word", key: "APPLY_OUTLIER_FIX", value: "yes please"},
		{name: "timeout", key: "REQUEST_TIMEOUT", value: "30s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
			assert.Contains(t, err.Error(), tt.value)
		})
	}
}

func TestLoadParsesLargeSeed(t *testing.T) {
	t.Setenv("RF_SEED", "9223372036854775807")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), cfg.Forest.Seed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "ratio of one", mutate: func(c *Config) { c.TrainRatio = 1 }, wantErr: true},
		{name: "zero ratio", mutate: func(c *Config) { c.TrainRatio = 0 }, wantErr: true},
		{name: "target as predictor", mutate: func(c *Config) { c.Predictors = []model.Field{model.GDP} }, wantErr: true},
		{name: "duplicate predictor", mutate: func(c *Config) { c.Predictors = []model.Field{model.GFCF, model.GFCF} }, wantErr: true},
		{name: "no predictors", mutate: func(c *Config) { c.Predictors = nil }, wantErr: true},
		{name: "no trees", mutate: func(c *Config) { c.Forest.Trees = 0 }, wantErr: true},
		{name: "too many split features", mutate: func(c *Config) { c.Forest.MaxFeatures = 4 }, wantErr: true},
		{name: "leaf size zero", mutate: func(c *Config) { c.Forest.MinSamplesLeaf = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
