package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format of the input file
const DateLayout = "2006-01-02"

// Field identifies one numeric column of the observation table
type Field int

const (
	GDP Field = iota
	GFCF
	UNEM
	ConsumerPrices
	GovExp
	HouseExp

	// NumFields is the number of numeric columns
	NumFields
)

var fieldNames = [NumFields]string{
	GDP:            "GDP",
	GFCF:           "GFCF",
	UNEM:           "UNEM",
	ConsumerPrices: "ConsumerPrices",
	GovExp:         "GovExp",
	HouseExp:       "HouseExp",
}

// Fields returns all numeric columns in file order
func Fields() []Field {
	fields := make([]Field, NumFields)
	for i := range fields {
		fields[i] = Field(i)
	}
	return fields
}

func (f Field) String() string {
	if f < 0 || f >= NumFields {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField resolves a header name to a Field, ignoring case and surrounding spaces
func ParseField(name string) (Field, error) {
	name = strings.TrimSpace(name)
	for i, n := range fieldNames {
		if strings.EqualFold(n, name) {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", name)
}

// MarshalText encodes a Field as its column name
func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes a column name into a Field
func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Missing returns the value used for an absent cell
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v marks an absent cell
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Observation is a single dated row of the table
type Observation struct {
	Date   time.Time          `json:"date"`
	Values [NumFields]float64 `json:"values"`
}

// Get returns the value of field f
func (o Observation) Get(f Field) float64 {
	return o.Values[f]
}

// Table is an ordered sequence of observations
type Table struct {
	Rows []Observation `json:"rows"`
}

// NewTable wraps rows into a table
func NewTable(rows []Observation) *Table {
	return &Table{Rows: rows}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns a copy of the values of field f in row order
func (t *Table) Column(f Field) []float64 {
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Values[f]
	}
	return out
}

// Dates returns the row dates in order
func (t *Table) Dates() []time.Time {
	out := make([]time.Time, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Date
	}
	return out
}

// Slice returns a copy of rows [from, to)
func (t *Table) Slice(from, to int) *Table {
	rows := make([]Observation, to-from)
	copy(rows, t.Rows[from:to])
	return &Table{Rows: rows}
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	return t.Slice(0, len(t.Rows))
}

// CountMissing returns the number of absent cells across all fields
func (t *Table) CountMissing() int {
	count := 0
	for _, row := range t.Rows {
		for _, v := range row.Values {
			if IsMissing(v) {
				count++
			}
		}
	}
	return count
}
