package evaluation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Alias1177/gdpforecast/internal/model"
)

// Evaluate computes every error metric of predicted against actual
func Evaluate(name string, predicted, actual []float64) (model.Score, error) {
	rmse, err := RMSE(predicted, actual)
	if err != nil {
		return model.Score{}, err
	}
	mae, err := MAE(predicted, actual)
	if err != nil {
		return model.Score{}, err
	}
	r2, err := RSquared(predicted, actual)
	if err != nil {
		return model.Score{}, err
	}
	return model.Score{Model: name, RMSE: rmse, MAE: mae, R2: r2}, nil
}

// RMSE returns sqrt(mean((actual_i - predicted_i)^2))
func RMSE(predicted, actual []float64) (float64, error) {
	if err := checkShape("rmse", predicted, actual); err != nil {
		return 0, err
	}
	// Euclidean distance is sqrt of the summed squared errors
	return floats.Distance(actual, predicted, 2) / math.Sqrt(float64(len(actual))), nil
}

// MAE returns mean(|actual_i - predicted_i|)
func MAE(predicted, actual []float64) (float64, error) {
	if err := checkShape("mae", predicted, actual); err != nil {
		return 0, err
	}
	return floats.Distance(actual, predicted, 1) / float64(len(actual)), nil
}

// RSquared returns the coefficient of determination of predicted against actual.
// A constant actual series has no variance to explain and yields NaN.
func RSquared(predicted, actual []float64) (float64, error) {
	if err := checkShape("r2", predicted, actual); err != nil {
		return 0, err
	}
	return stat.RSquaredFrom(predicted, actual, nil), nil
}

func checkShape(op string, predicted, actual []float64) error {
	if len(predicted) != len(actual) {
		return &model.ShapeError{
			Op:     op,
			Reason: fmt.Sprintf("%d predictions for %d observations", len(predicted), len(actual)),
		}
	}
	if len(actual) == 0 {
		return &model.ShapeError{Op: op, Reason: "no observations"}
	}
	return nil
}
