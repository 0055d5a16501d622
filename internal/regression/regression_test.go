package regression

import (
	"math"
	"time"

	"github.com/Alias1177/gdpforecast/internal/model"
)

// syntheticTable builds n quarterly rows where every field is produced by gen
func syntheticTable(n int, gen func(i int) [model.NumFields]float64) *model.Table {
	rows := make([]model.Observation, n)
	start := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = model.Observation{Date: start.AddDate(0, 3*i, 0), Values: gen(i)}
	}
	return model.NewTable(rows)
}

var predictors = []model.Field{model.GFCF, model.GovExp, model.HouseExp}

func linearRow(i int) [model.NumFields]float64 {
	var v [model.NumFields]float64
	v[model.GFCF] = float64(i)
	v[model.GovExp] = float64((i * i) % 7)
	v[model.HouseExp] = float64((i * 3) % 5)
	v[model.UNEM] = math.Sin(float64(i))
	v[model.GDP] = 3 + 2*v[model.GFCF] - v[model.GovExp] + 0.5*v[model.HouseExp]
	return v
}
