// Package errors defines the user-facing error type litemon prints when a
// command fails: what went wrong, the underlying cause, and what to do next.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies an Error for exit handling and JSON output.
type Code string

const (
	// ErrConfig covers bad flags, config files and environment values.
	ErrConfig Code = "CONFIG"
	// ErrTerminal covers failures to open, draw to or read from the terminal.
	ErrTerminal Code = "TERMINAL"
	// ErrCollect covers metric collection that could not complete.
	ErrCollect Code = "COLLECT"
	// ErrGPU is a GPU probe that failed for a reason other than a missing device.
	ErrGPU Code = "GPU"
)

// Error is a failure with a code, a one-line message, an optional cause and
// an optional suggestion. It prints as:
//
//	✗ <message>
//
//	  <cause>
//
//	  <suggestion>
type Error struct {
	Code       Code
	Message    string
	Suggestion string
	Cause      error
}

// New returns an Error without a cause.
func New(code Code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// WrapWithCode returns an Error around err.
func WrapWithCode(err error, code Code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✗ %s\n", e.Message)
	for _, detail := range []string{e.cause(), e.Suggestion} {
		if detail != "" {
			fmt.Fprintf(&b, "\n  %s\n", detail)
		}
	}
	return b.String()
}

func (e *Error) cause() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether the outermost Error in err's chain has code.
func IsCode(err error, code Code) bool {
	var lmErr *Error
	return errors.As(err, &lmErr) && lmErr.Code == code
}
