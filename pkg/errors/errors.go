// Package errors carries the structured error type shared by the CLI
// and the HTTP boundary.
//
// Every failure mode of the decode -> resolve -> assemble -> render
// pipeline maps to exactly one Code, so callers branch on codes rather
// than on message text. UNSUPPORTED_EVENT is the one recoverable code:
// the decoder degrades the offending event to a rest, counts it, and
// moves on. The remaining codes cover upload handling and score lookup
// at the serving boundary.
//
//	err := errors.New(errors.ErrCodeUnknownLayout, "no layout %q with %d notes", name, count)
//	if errors.Is(err, errors.ErrCodeUnknownLayout) {
//		// suggest a close match
//	}
//
// Wrap preserves an underlying cause for errors.Is/As chains:
//
//	return errors.Wrap(errors.ErrCodeArchiveUnreadable, err, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Compilation errors (closed set)
	ErrCodeArchiveUnreadable    Code = "ARCHIVE_UNREADABLE"
	ErrCodeScoreUnparsable      Code = "SCORE_UNPARSABLE"
	ErrCodeUnsupportedEvent     Code = "UNSUPPORTED_EVENT"
	ErrCodeUnknownLayout        Code = "UNKNOWN_LAYOUT"
	ErrCodeInvalidPartSelection Code = "INVALID_PART_SELECTION"
	ErrCodeTransposeOutOfRange  Code = "TRANSPOSE_OUT_OF_RANGE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Boundary errors
	ErrCodeScoreNotFound  Code = "SCORE_NOT_FOUND"
	ErrCodeUploadTooLarge Code = "UPLOAD_TOO_LARGE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error pairs a stable code with a human-readable message and an
// optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to the stdlib errors.Is/As machinery.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error from a code and a printf-style message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that carries cause at the end of its chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether somewhere in err's chain sits an *Error carrying
// the given code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// GetCode extracts the code from err, or "" when err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// UserMessage strips the code prefix for display. Plain errors pass
// through unchanged.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	return e.Message
}

// Fatal reports whether the error should abort a compilation run.
// Every compilation code except the recoverable UNSUPPORTED_EVENT is
// fatal; unknown errors are treated as fatal too.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return GetCode(err) != ErrCodeUnsupportedEvent
}
