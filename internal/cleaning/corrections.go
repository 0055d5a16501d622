package cleaning

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Alias1177/gdpforecast/internal/model"
)

// Corrections maps a field to the 1-indexed rows whose value is replaced
// with the value of the row before it.
type Corrections map[model.Field][]int

// DefaultCorrections lists the known bad cells of the quarterly macro dataset
func DefaultCorrections() Corrections {
	return Corrections{
		model.GDP:            {51},
		model.GFCF:           {71},
		model.UNEM:           {107},
		model.ConsumerPrices: {87},
		model.GovExp:         {118},
		model.HouseExp:       {91},
	}
}

// Position is a single cell to correct
type Position struct {
	Field model.Field
	Row   int // 1-indexed
}

// Positions flattens the table in ascending field, then row order
func (c Corrections) Positions() []Position {
	var out []Position
	for f, rows := range c {
		for _, r := range rows {
			out = append(out, Position{Field: f, Row: r})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Field != out[j].Field {
			return out[i].Field < out[j].Field
		}
		return out[i].Row < out[j].Row
	})
	return out
}

// Validate rejects rows that cannot reference a prior row
func (c Corrections) Validate() error {
	for f, rows := range c {
		if f < 0 || f >= model.NumFields {
			return fmt.Errorf("unknown field %d", int(f))
		}
		for _, r := range rows {
			if r < 2 {
				return fmt.Errorf("%s: row %d has no prior row to copy from", f, r)
			}
		}
	}
	return nil
}

type correctionsFile struct {
	Corrections map[string][]int `yaml:"corrections"`
}

// LoadCorrections reads a correction table from a YAML file
func LoadCorrections(path string) (Corrections, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corrections file: %w", err)
	}
	return ParseCorrections(data)
}

// ParseCorrections decodes a YAML correction table
func ParseCorrections(data []byte) (Corrections, error) {
	var file correctionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse corrections: %w", err)
	}

	c := make(Corrections, len(file.Corrections))
	for name, rows := range file.Corrections {
		f, err := model.ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("invalid corrections: %w", err)
		}
		c[f] = append(c[f], rows...)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid corrections: %w", err)
	}
	return c, nil
}
