// Package errors carries coded errors across the circed boundaries: the
// schematic package tags validation failures with a machine-readable
// code, and the CLI turns them back into clean user messages.
//
// Usage:
//
//	err := errors.New(errors.ErrCodeInvalidSnapshot, "dangling edge %d", id)
//	if errors.Is(err, errors.ErrCodeInvalidSnapshot) {
//	    // reject the file
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// ErrCodeInvalidInput marks a rejected user value, such as a net label.
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodeInvalidSnapshot marks a document file that failed validation.
	ErrCodeInvalidSnapshot Code = "INVALID_SNAPSHOT"

	// ErrCodeInvalidDesignator marks a malformed device designator.
	ErrCodeInvalidDesignator Code = "INVALID_DESIGNATOR"

	// ErrCodeInvalidFormat marks an unknown export format or a format
	// and view combination that cannot be rendered.
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// ErrCodeInvalidPath marks a rejected snapshot or output path.
	ErrCodeInvalidPath Code = "INVALID_PATH"
)

// Error pairs a code with a human-readable message and an optional cause.
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

// Unwrap exposes the cause to the stdlib errors helpers.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an existing error. The cause stays
// reachable through errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain carries code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// GetCode returns the code of the first *Error in err's chain, or the
// empty string when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix for terminal output. Plain errors
// pass through unchanged.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
