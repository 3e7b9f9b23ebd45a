package store

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeIO indicates the underlying file could not be checked, read,
	// written or deleted.
	ErrCodeIO ErrorCode = "IO"

	// ErrCodeNoData indicates an export was requested with no data rows.
	ErrCodeNoData ErrorCode = "NO_DATA"

	// ErrCodeHeaderMismatch indicates the header line does not list the
	// schema columns in order. Only ever reported as a diagnostic.
	ErrCodeHeaderMismatch ErrorCode = "HEADER_MISMATCH"
)

// Error is a store failure or diagnostic.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the backing file name.
	Path string

	// Expected and Got hold the header columns (HEADER_MISMATCH only).
	Expected []string
	Got      []string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (file=%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsNoData reports whether err is a NO_DATA error.
func IsNoData(err error) bool { return hasCode(err, ErrCodeNoData) }

// IsHeaderMismatch reports whether err is a HEADER_MISMATCH diagnostic.
func IsHeaderMismatch(err error) bool { return hasCode(err, ErrCodeHeaderMismatch) }

// IsIO reports whether err is an I/O failure.
func IsIO(err error) bool { return hasCode(err, ErrCodeIO) }

func newIOError(op, path string, err error) *Error {
	return &Error{Code: ErrCodeIO, Message: op, Path: path, Err: err}
}

func newNoDataError(path string) *Error {
	return &Error{Code: ErrCodeNoData, Message: "no survey data to export", Path: path}
}

func newHeaderMismatch(path string, expected, got []string) *Error {
	return &Error{
		Code:     ErrCodeHeaderMismatch,
		Message:  "csv header does not match the expected columns",
		Path:     path,
		Expected: expected,
		Got:      got,
	}
}
