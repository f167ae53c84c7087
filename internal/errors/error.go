package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryCodec  Category = "codec"
	CategoryConfig Category = "config"
	CategoryCLI    Category = "cli"
)

// FilterError is a structured error with a code, explanation and suggestion.
type FilterError struct {
	// Code is a unique error identifier (e.g., "F001").
	Code string

	// Category is the error type (codec, config, cli).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FilterError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Wrapped)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FilterError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *FilterError) WithSuggestion(s string) *FilterError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *FilterError) WithDetail(d string) *FilterError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *FilterError) Wrap(err error) *FilterError {
	e.Wrapped = err
	return e
}

// New creates a FilterError from a registered error code.
func New(code string) *FilterError {
	template, ok := Lookup(code)
	if !ok {
		return &FilterError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FilterError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new FilterError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *FilterError {
	return &FilterError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a FilterError.
// An error chain that already holds a *FilterError yields that error.
func FromError(err error, code string) *FilterError {
	if err == nil {
		return nil
	}
	var fe *FilterError
	if stderrors.As(err, &fe) {
		return fe
	}
	return New(code).Wrap(err)
}
