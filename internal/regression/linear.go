package regression

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/Alias1177/gdpforecast/internal/model"
)

// LinearName identifies the least squares model in reports
const LinearName = "OLS"

// LinearModel is an unregularised least squares fit: target = Intercept + Σ Slopes[i]*feature[i]
type LinearModel struct {
	Target    model.Field
	Features  []model.Field
	Intercept float64
	Slopes    []float64
}

// FitLinear solves the least squares problem on the design matrix [1 | X]
func FitLinear(train *model.Table, target model.Field, features []model.Field) (*LinearModel, error) {
	if err := checkTraining(LinearName, train, target, features); err != nil {
		return nil, err
	}

	// a constant predictor is collinear with the intercept column
	for _, f := range features {
		if floats.Min(train.Column(f)) == floats.Max(train.Column(f)) {
			return nil, &model.FitError{Model: LinearName, Reason: fmt.Sprintf("predictor %s is constant", f)}
		}
	}

	n, p := train.Len(), len(features)
	x := mat.NewDense(n, p+1, nil)
	y := mat.NewVecDense(n, nil)
	for i, obs := range train.Rows {
		x.Set(i, 0, 1)
		for j, f := range features {
			x.Set(i, j+1, obs.Values[f])
		}
		y.SetVec(i, obs.Values[target])
	}

	// QR least squares; a Condition error means the columns are (nearly) collinear
	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return nil, &model.FitError{Model: LinearName, Reason: "design matrix is rank deficient", Err: err}
	}

	m := &LinearModel{
		Target:    target,
		Features:  append([]model.Field(nil), features...),
		Intercept: beta.AtVec(0),
		Slopes:    make([]float64, p),
	}
	for j := range m.Slopes {
		m.Slopes[j] = beta.AtVec(j + 1)
	}
	return m, nil
}

// Name implements Model
func (m *LinearModel) Name() string { return LinearName }

// Predict applies the fitted coefficients to every row of t
func (m *LinearModel) Predict(t *model.Table) []float64 {
	out := make([]float64, t.Len())
	for i, obs := range t.Rows {
		v := m.Intercept
		for j, f := range m.Features {
			v += m.Slopes[j] * obs.Values[f]
		}
		out[i] = v
	}
	return out
}

// Coefficients lists the intercept followed by one slope per predictor
func (m *LinearModel) Coefficients() []model.Coefficient {
	out := make([]model.Coefficient, 0, len(m.Slopes)+1)
	out = append(out, model.Coefficient{Term: "(Intercept)", Value: m.Intercept})
	for j, f := range m.Features {
		out = append(out, model.Coefficient{Term: f.String(), Value: m.Slopes[j]})
	}
	return out
}
