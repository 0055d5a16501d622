package model

import "fmt"

// ParseError reports malformed input at load or clean time
type ParseError struct {
	Row    int    // 1-indexed data row, 0 for the header
	Column string // column name, empty when the whole row is affected
	Value  string
	Reason string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	switch {
	case e.Column != "" && e.Value != "":
		return fmt.Sprintf("parse error at row %d, column %s (%q): %s", e.Row, e.Column, e.Value, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("parse error at row %d, column %s: %s", e.Row, e.Column, e.Reason)
	default:
		return fmt.Sprintf("parse error at row %d: %s", e.Row, e.Reason)
	}
}

// ShapeError reports sequences or tables with the wrong size for an operation
type ShapeError struct {
	Op     string
	Reason string
}

// Error implements the error interface
func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape error in %s: %s", e.Op, e.Reason)
}

// FitError reports a model that could not be fitted
type FitError struct {
	Model  string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *FitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fitting %s: %s: %v", e.Model, e.Reason, e.Err)
	}
	return fmt.Sprintf("fitting %s: %s", e.Model, e.Reason)
}

// Unwrap returns the underlying solver error, if any
func (e *FitError) Unwrap() error {
	return e.Err
}
