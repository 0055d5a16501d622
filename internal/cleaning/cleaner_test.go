package cleaning

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/gdpforecast/internal/model"
)

func buildTable(n int) *model.Table {
	rows := make([]model.Observation, n)
	start := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i].Date = start.AddDate(0, 3*i, 0)
		for f := range rows[i].Values {
			rows[i].Values[f] = float64(100*f + i)
		}
	}
	return model.NewTable(rows)
}

func TestForwardFill(t *testing.T) {
	table := buildTable(6)
	table.Rows[2].Values[model.GDP] = model.Missing()
	table.Rows[3].Values[model.GDP] = model.Missing()
	table.Rows[5].Values[model.UNEM] = model.Missing()

	cleaned, stats, err := NewCleaner(nil).Clean(table)
	require.NoError(t, err)

	assert.Equal(t, 0, cleaned.CountMissing())
	assert.Equal(t, cleaned.Rows[1].Get(model.GDP), cleaned.Rows[2].Get(model.GDP))
	assert.Equal(t, cleaned.Rows[1].Get(model.GDP), cleaned.Rows[3].Get(model.GDP))
	assert.Equal(t, cleaned.Rows[4].Get(model.UNEM), cleaned.Rows[5].Get(model.UNEM))
	assert.Equal(t, 2, stats.Filled[model.GDP])
	assert.Equal(t, 1, stats.Filled[model.UNEM])
	assert.Equal(t, 3, stats.TotalFilled())
	assert.Equal(t, 0, stats.Corrected)

	// input is untouched
	assert.Equal(t, 3, table.CountMissing())
}

func TestForwardFillFirstRow(t *testing.T) {
	table := buildTable(3)
	table.Rows[0].Values[model.GovExp] = model.Missing()

	_, _, err := NewCleaner(nil).Clean(table)

	var parseErr *model.ParseError
	require.True(t, errors.As(err, &parseErr), "got %v", err)
	assert.Equal(t, 1, parseErr.Row)
	assert.Equal(t, "GovExp", parseErr.Column)
}

func TestDefaultCorrectionsOnFullTable(t *testing.T) {
	table := buildTable(121)
	outliers := map[model.Field]int{
		model.GDP:            51,
		model.GFCF:           71,
		model.UNEM:           107,
		model.ConsumerPrices: 87,
		model.GovExp:         118,
		model.HouseExp:       91,
	}
	for f, row := range outliers {
		table.Rows[row-1].Values[f] = 1e9
	}

	cleaned, stats, err := NewCleaner(DefaultCorrections()).Clean(table)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Corrected)

	for f, row := range outliers {
		t.Run(f.String(), func(t *testing.T) {
			// 1-indexed row r equals row r-1
			assert.Equal(t, cleaned.Rows[row-2].Get(f), cleaned.Rows[row-1].Get(f))
			assert.NotEqual(t, 1e9, cleaned.Rows[row-1].Get(f))
		})
	}

	// untouched cells keep their values
	assert.Equal(t, table.Rows[51].Get(model.GDP), cleaned.Rows[51].Get(model.GDP))
	assert.Equal(t, table.Rows[50].Get(model.GFCF), cleaned.Rows[50].Get(model.GFCF))
}

func TestFillRunsBeforeCorrection(t *testing.T) {
	table := buildTable(5)
	table.Rows[2].Values[model.GDP] = model.Missing()
	table.Rows[3].Values[model.GDP] = 1e9

	cleaned, _, err := NewCleaner(Corrections{model.GDP: {4}}).Clean(table)
	require.NoError(t, err)

	// row 3 was filled from row 2, then row 4 was corrected from the filled row 3
	assert.Equal(t, table.Rows[1].Get(model.GDP), cleaned.Rows[2].Get(model.GDP))
	assert.Equal(t, table.Rows[1].Get(model.GDP), cleaned.Rows[3].Get(model.GDP))
}

func TestCorrectionOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		row  int
	}{
		{name: "past the end", row: 11},
		{name: "first row", row: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewCleaner(Corrections{model.GDP: {tt.row}}).Clean(buildTable(10))
			var shapeErr *model.ShapeError
			assert.True(t, errors.As(err, &shapeErr), "got %v", err)
		})
	}
}
