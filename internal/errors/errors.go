// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrEmptySelection    = errors.New("no strategy selected")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// User-facing messages for expected interactive states.
const (
	MsgEmptySelection   = "Please select at least one strategy to plot."
	MsgInvalidParameter = "All inputs must be positive."
)

// ValidationError represents a rejected input parameter. It always matches
// ErrInvalidParameter under errors.Is.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidParameter
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// UserMessage maps an error to the text shown in place of a chart.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptySelection):
		return MsgEmptySelection
	case errors.Is(err, ErrInvalidParameter):
		return MsgInvalidParameter
	default:
		return "Error: " + err.Error()
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
