package models

import (
	"errors"
	"fmt"
)

// Sentinel kinds for errors.Is matching.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrDataShape     = errors.New("data shape error")
)

// ConfigurationError reports a caller contract violation in the ranking
// configuration: unknown criteria in overrides, an empty decision matrix,
// or a tuning parameter outside its domain.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError returns a ConfigurationError for field.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DataShapeError reports a decision matrix that violates the engine's
// input contract (inconsistent criterion sets, non-finite cells, duplicate ids).
// Row is -1 and Column is empty when not applicable.
type DataShapeError struct {
	Row    int
	Column string
	Reason string
}

func (e *DataShapeError) Error() string {
	switch {
	case e.Row >= 0 && e.Column != "":
		return fmt.Sprintf("data shape error: row %d, column %q: %s", e.Row, e.Column, e.Reason)
	case e.Row >= 0:
		return fmt.Sprintf("data shape error: row %d: %s", e.Row, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("data shape error: column %q: %s", e.Column, e.Reason)
	default:
		return fmt.Sprintf("data shape error: %s", e.Reason)
	}
}

// Is reports whether target is ErrDataShape.
func (e *DataShapeError) Is(target error) bool {
	return target == ErrDataShape
}

// NewDataShapeError returns a DataShapeError for the given cell.
func NewDataShapeError(row int, column, format string, args ...any) *DataShapeError {
	return &DataShapeError{Row: row, Column: column, Reason: fmt.Sprintf(format, args...)}
}
