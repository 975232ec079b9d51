package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRender   Category = "render"
	CategoryProtocol Category = "protocol"
	CategoryServer   Category = "server"
	CategoryConfig   Category = "config"
	CategoryExport   Category = "export"
	CategoryCLI      Category = "cli"
)

// SproutError is a coded error with an explanation and a fix suggestion,
// formatted for the terminal by the CLI.
type SproutError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (render, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct approach.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *SproutError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *SproutError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *SproutError) WithSuggestion(s string) *SproutError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *SproutError) WithExample(ex string) *SproutError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *SproutError) WithDetail(d string) *SproutError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *SproutError) Wrap(err error) *SproutError {
	e.Wrapped = err
	return e
}

// New creates a SproutError from a registered error code.
func New(code string) *SproutError {
	template, ok := registry[code]
	if !ok {
		return &SproutError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &SproutError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new SproutError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *SproutError {
	return &SproutError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in a SproutError with code, unless it already is one.
func FromError(err error, code string) *SproutError {
	if err == nil {
		return nil
	}
	var se *SproutError
	if stderrors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err's chain holds a SproutError with code.
func HasCode(err error, code string) bool {
	var se *SproutError
	return stderrors.As(err, &se) && se.Code == code
}
