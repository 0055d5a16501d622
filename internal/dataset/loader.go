package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/gdpforecast/internal/model"
	"github.com/Alias1177/gdpforecast/internal/platform/http"
)

const dateColumn = "Date"

// Fetcher downloads a remote source
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Loader reads the observation table from a local file or a URL
type Loader struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

// NewLoader creates a loader; remote sources go through a rate limited client
func NewLoader(requestTimeout time.Duration) *Loader {
	return &Loader{
		fetcher: http.NewClient(http.ClientOptions{Timeout: requestTimeout}),
		logger:  log.With().Str("component", "loader").Logger(),
	}
}

// WithFetcher replaces the client used for remote sources
func (l *Loader) WithFetcher(f Fetcher) *Loader {
	l.fetcher = f
	return l
}

// Load reads source, which is either a file path or an http(s) URL
func (l *Loader) Load(ctx context.Context, source string) (*model.Table, error) {
	var r io.Reader
	if isRemote(source) {
		l.logger.Debug().Str("url", source).Msg("Fetching remote dataset")
		body, err := l.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(body)
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening dataset: %w", err)
		}
		defer f.Close()
		r = f
	}

	table, err := Parse(r)
	if err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("source", source).
		Int("rows", table.Len()).
		Int("missing", table.CountMissing()).
		Msg("Loaded dataset")
	return table, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Parse reads CSV with a header row into a table
func Parse(r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &model.ShapeError{Op: "load", Reason: "file is empty"}
		}
		return nil, &model.ParseError{Row: 0, Reason: fmt.Sprintf("reading header: %v", err)}
	}

	dateIdx, fieldIdx, err := mapColumns(headers)
	if err != nil {
		return nil, err
	}

	var rows []model.Observation
	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &model.ParseError{Row: rowNum, Reason: err.Error()}
		}

		obs, err := parseRecord(record, rowNum, dateIdx, fieldIdx)
		if err != nil {
			return nil, err
		}
		if n := len(rows); n > 0 && obs.Date.Before(rows[n-1].Date) {
			return nil, &model.ParseError{
				Row:    rowNum,
				Column: dateColumn,
				Value:  obs.Date.Format(model.DateLayout),
				Reason: "dates must be in non-decreasing order",
			}
		}
		rows = append(rows, obs)
	}

	if len(rows) == 0 {
		return nil, &model.ShapeError{Op: "load", Reason: "no data rows"}
	}
	return model.NewTable(rows), nil
}

// mapColumns locates the date and numeric columns by header name
func mapColumns(headers []string) (int, [model.NumFields]int, error) {
	dateIdx := -1
	var fieldIdx [model.NumFields]int
	for i := range fieldIdx {
		fieldIdx[i] = -1
	}

	for i, h := range headers {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if strings.EqualFold(name, dateColumn) {
			if dateIdx >= 0 {
				return 0, fieldIdx, &model.ParseError{Row: 0, Column: name, Reason: "duplicate column"}
			}
			dateIdx = i
			continue
		}
		if f, err := model.ParseField(name); err == nil {
			if fieldIdx[f] >= 0 {
				return 0, fieldIdx, &model.ParseError{Row: 0, Column: name, Reason: "duplicate column"}
			}
			fieldIdx[f] = i
		}
		// Unmapped columns are silently skipped
	}

	if dateIdx < 0 {
		return 0, fieldIdx, &model.ParseError{Row: 0, Column: dateColumn, Reason: "column not found in header"}
	}
	for f, idx := range fieldIdx {
		if idx < 0 {
			return 0, fieldIdx, &model.ParseError{Row: 0, Column: model.Field(f).String(), Reason: "column not found in header"}
		}
	}
	return dateIdx, fieldIdx, nil
}

func parseRecord(record []string, rowNum, dateIdx int, fieldIdx [model.NumFields]int) (model.Observation, error) {
	var obs model.Observation

	rawDate := strings.TrimSpace(cell(record, dateIdx))
	date, err := time.Parse(model.DateLayout, rawDate)
	if err != nil {
		return obs, &model.ParseError{Row: rowNum, Column: dateColumn, Value: rawDate, Reason: "expected YYYY-MM-DD"}
	}
	obs.Date = date

	for f, idx := range fieldIdx {
		raw := strings.TrimSpace(cell(record, idx))
		if raw == "" || strings.EqualFold(raw, "NA") {
			obs.Values[f] = model.Missing()
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return obs, &model.ParseError{Row: rowNum, Column: model.Field(f).String(), Value: raw, Reason: "not a number"}
		}
		obs.Values[f] = v
	}
	return obs, nil
}

// cell tolerates short records; the csv reader already enforces a fixed field count
func cell(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return record[idx]
}
