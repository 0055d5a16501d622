package evaluation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/gdpforecast/internal/model"
)

func TestRMSE(t *testing.T) {
	tests := []struct {
		name      string
		predicted []float64
		actual    []float64
		expected  float64
	}{
		{name: "identity", predicted: []float64{1, 2, 3}, actual: []float64{1, 2, 3}, expected: 0},
		{name: "constant offset", predicted: []float64{2, 3, 4}, actual: []float64{1, 2, 3}, expected: 1},
		{name: "mixed errors", predicted: []float64{0, 0}, actual: []float64{3, 4}, expected: math.Sqrt(12.5)},
		{name: "single value", predicted: []float64{-2}, actual: []float64{2}, expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RMSE(tt.predicted, tt.actual)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestRMSEShapeErrors(t *testing.T) {
	tests := []struct {
		name      string
		predicted []float64
		actual    []float64
	}{
		{name: "length mismatch", predicted: []float64{1, 2}, actual: []float64{1, 2, 3}},
		{name: "empty", predicted: nil, actual: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RMSE(tt.predicted, tt.actual)
			var shapeErr *model.ShapeError
			assert.True(t, errors.As(err, &shapeErr), "got %v", err)
		})
	}
}

func TestMAE(t *testing.T) {
	got, err := MAE([]float64{0, 0, 0}, []float64{1, -2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-12)
}

func TestRSquared(t *testing.T) {
	actual := []float64{1, 2, 3, 4}

	perfect, err := RSquared(actual, actual)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, perfect, 1e-12)

	// predicting the mean explains nothing
	mean, err := RSquared([]float64{2.5, 2.5, 2.5, 2.5}, actual)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, mean, 1e-12)
}

func TestEvaluate(t *testing.T) {
	score, err := Evaluate("OLS", []float64{2, 3, 4}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "OLS", score.Model)
	assert.InDelta(t, 1.0, score.RMSE, 1e-12)
	assert.InDelta(t, 1.0, score.MAE, 1e-12)

	_, err = Evaluate("OLS", []float64{1}, []float64{1, 2})
	var shapeErr *model.ShapeError
	assert.True(t, errors.As(err, &shapeErr))
}
