// Package regression fits GDP forecasting models on an observation table.
package regression

import (
	"fmt"

	"github.com/Alias1177/gdpforecast/internal/model"
)

// Model is a fitted regressor
type Model interface {
	Name() string
	Predict(t *model.Table) []float64
}

// checkTraining enforces the minimum rows needed to identify one
// coefficient per predictor plus the intercept.
func checkTraining(name string, t *model.Table, target model.Field, features []model.Field) error {
	if len(features) == 0 {
		return &model.FitError{Model: name, Reason: "no predictors"}
	}
	for _, f := range append([]model.Field{target}, features...) {
		if f < 0 || f >= model.NumFields {
			return &model.FitError{Model: name, Reason: fmt.Sprintf("unknown field %d", int(f))}
		}
	}
	if t.Len() < len(features)+1 {
		return &model.FitError{
			Model:  name,
			Reason: fmt.Sprintf("need at least %d training rows, got %d", len(features)+1, t.Len()),
		}
	}
	if missing := t.CountMissing(); missing > 0 {
		return &model.FitError{Model: name, Reason: fmt.Sprintf("training data has %d missing cells", missing)}
	}
	return nil
}

// featureRow extracts the predictor values of one observation
func featureRow(obs model.Observation, features []model.Field, dst []float64) []float64 {
	dst = dst[:0]
	for _, f := range features {
		dst = append(dst, obs.Values[f])
	}
	return dst
}
