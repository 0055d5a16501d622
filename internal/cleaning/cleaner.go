package cleaning

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/gdpforecast/internal/model"
)

// Stats counts the cells changed by a cleaning run
type Stats struct {
	Filled    [model.NumFields]int `json:"filled"`
	Corrected int                  `json:"corrected"`
}

// TotalFilled returns the number of forward-filled cells across all fields
func (s Stats) TotalFilled() int {
	total := 0
	for _, n := range s.Filled {
		total += n
	}
	return total
}

// Cleaner fills gaps and applies the outlier correction table
type Cleaner struct {
	corrections Corrections
	logger      zerolog.Logger
}

// NewCleaner creates a cleaner; nil corrections skip the outlier pass
func NewCleaner(corrections Corrections) *Cleaner {
	return &Cleaner{
		corrections: corrections,
		logger:      log.With().Str("component", "cleaner").Logger(),
	}
}

// Clean returns a cleaned copy of t. The input table is not modified.
func (c *Cleaner) Clean(t *model.Table) (*model.Table, Stats, error) {
	var stats Stats
	out := t.Clone()

	if err := forwardFill(out, &stats); err != nil {
		return nil, stats, err
	}

	if c.corrections != nil {
		if err := c.correctOutliers(out, &stats); err != nil {
			return nil, stats, err
		}
	}

	c.logger.Debug().
		Int("filled", stats.TotalFilled()).
		Int("corrected", stats.Corrected).
		Msg("Cleaned dataset")
	return out, stats, nil
}

// forwardFill carries the last observation forward into missing cells.
// A gap in the first row has nothing to carry and is rejected.
func forwardFill(t *model.Table, stats *Stats) error {
	for i := range t.Rows {
		for _, f := range model.Fields() {
			if !model.IsMissing(t.Rows[i].Values[f]) {
				continue
			}
			if i == 0 {
				return &model.ParseError{
					Row:    1,
					Column: f.String(),
					Reason: "missing value in first row has no prior observation to carry forward",
				}
			}
			t.Rows[i].Values[f] = t.Rows[i-1].Values[f]
			stats.Filled[f]++
		}
	}
	return nil
}

func (c *Cleaner) correctOutliers(t *model.Table, stats *Stats) error {
	n := t.Len()
	for _, p := range c.corrections.Positions() {
		if p.Row < 2 || p.Row > n {
			return &model.ShapeError{
				Op:     "clean",
				Reason: fmt.Sprintf("correction %s row %d outside rows 2..%d", p.Field, p.Row, n),
			}
		}
		idx := p.Row - 1
		c.logger.Debug().
			Str("field", p.Field.String()).
			Int("row", p.Row).
			Float64("from", t.Rows[idx].Values[p.Field]).
			Float64("to", t.Rows[idx-1].Values[p.Field]).
			Msg("Correcting outlier")
		t.Rows[idx].Values[p.Field] = t.Rows[idx-1].Values[p.Field]
		stats.Corrected++
	}
	return nil
}
