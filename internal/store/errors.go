package store

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by every operation on a closed Store.
var ErrClosed = errors.New("store is closed")

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates no adapter matched the dialect or the
	// connection could not be opened.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"

	// ErrCodeSchema indicates the adapter's migration failed.
	ErrCodeSchema ErrorCode = "SCHEMA"

	// ErrCodeExecution indicates a SQL statement failed.
	ErrCodeExecution ErrorCode = "EXECUTION"

	// ErrCodeDecode indicates a stored cell could not be decoded.
	ErrCodeDecode ErrorCode = "DECODE"
)

// Error is a classified store failure. Err carries the underlying cause.
type Error struct {
	Code ErrorCode

	// Op names the store operation, e.g. "open" or "insert".
	Op string

	// Dialect is the adapter dialect, when one was selected.
	Dialect string

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Dialect != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Code, e.Op, e.Dialect, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is a construction failure.
func IsConfigurationError(err error) bool {
	return hasCode(err, ErrCodeConfiguration)
}

// IsSchemaError reports whether err is a migration failure.
func IsSchemaError(err error) bool {
	return hasCode(err, ErrCodeSchema)
}

// IsExecutionError reports whether err is a SQL execution failure.
func IsExecutionError(err error) bool {
	return hasCode(err, ErrCodeExecution)
}

// IsDecodeError reports whether err is a cell decoding failure.
func IsDecodeError(err error) bool {
	return hasCode(err, ErrCodeDecode)
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
