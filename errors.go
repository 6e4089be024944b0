package quiren

import (
	"errors"
	"fmt"
)

// Code classifies every error the tool can surface. Codes are stable:
// tests and callers branch on them, messages are for humans.
type Code string

const (
	ErrIO                  Code = "IO_ERROR"
	ErrNotADirectory       Code = "NOT_A_DIRECTORY"
	ErrAccessDenied        Code = "ACCESS_DENIED"
	ErrEditorFailed        Code = "EDITOR_FAILED"
	ErrMalformedEdit       Code = "MALFORMED_EDIT"
	ErrUnsupportedDeletion Code = "UNSUPPORTED_DELETION"
	ErrNameCollision       Code = "NAME_COLLISION"
	ErrRaceCondition       Code = "RACE_CONDITION"
	ErrTempName            Code = "TEMP_NAME"
)

// Error is a coded error with optional structured details (entry names,
// step indexes) attached for reporting.
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches two Errors by code, so errors.Is(err, New(ErrIO, "")) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetail attaches a named detail and returns the error for chaining.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates an existing error with a code. Returns nil for nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Wrapped: err}
}

// Wrapf annotates an existing error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
