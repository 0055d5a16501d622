package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/gdpforecast/internal/model"
)

func TestSummarize(t *testing.T) {
	table := quarterlyTable(4)
	table.Rows[2].Values[model.GDP] = model.Missing()

	summary := Summarize(table)
	require.Len(t, summary, int(model.NumFields))

	gdp := summary[model.GDP]
	assert.Equal(t, model.GDP, gdp.Field)
	assert.Equal(t, 3, gdp.Count)
	assert.Equal(t, 1, gdp.Missing)
	assert.InDelta(t, (0.0+10+30)/3, gdp.Mean, 1e-9)
	assert.Equal(t, 0.0, gdp.Min)
	assert.Equal(t, 30.0, gdp.Max)
	assert.Greater(t, gdp.StdDev, 0.0)

	house := summary[model.HouseExp]
	assert.Equal(t, 4, house.Count)
	assert.Equal(t, 0, house.Missing)
	assert.Equal(t, 5.0, house.Min)
	assert.Equal(t, 35.0, house.Max)
}
