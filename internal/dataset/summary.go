package dataset

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Alias1177/gdpforecast/internal/model"
)

// ColumnSummary describes the present values of one field
type ColumnSummary struct {
	Field   model.Field `json:"field"`
	Count   int         `json:"count"`
	Missing int         `json:"missing"`
	Mean    float64     `json:"mean"`
	StdDev  float64     `json:"std_dev"`
	Min     float64     `json:"min"`
	Max     float64     `json:"max"`
}

// Summarize computes descriptive statistics per field, skipping missing cells
func Summarize(t *model.Table) []ColumnSummary {
	out := make([]ColumnSummary, 0, model.NumFields)
	for _, f := range model.Fields() {
		column := t.Column(f)
		present := make([]float64, 0, len(column))
		for _, v := range column {
			if !model.IsMissing(v) {
				present = append(present, v)
			}
		}

		s := ColumnSummary{
			Field:   f,
			Count:   len(present),
			Missing: len(column) - len(present),
		}
		if len(present) > 0 {
			s.Mean = stat.Mean(present, nil)
			s.Min = floats.Min(present)
			s.Max = floats.Max(present)
		}
		if len(present) > 1 {
			s.StdDev = stat.StdDev(present, nil)
		}
		out = append(out, s)
	}
	return out
}
