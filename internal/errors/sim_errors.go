package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the different kinds of failure a simulation run can hit
type ErrorCategory string

const (
	// Fatal to the whole run
	ErrorCategoryFatal         ErrorCategory = "FATAL"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	ErrorCategoryData          ErrorCategory = "DATA"

	// Outside the simulation loop, can be retried by the operator
	ErrorCategoryStorage ErrorCategory = "STORAGE"
	ErrorCategoryNetwork ErrorCategory = "NETWORK"
)

// SimError is a categorised error with the component and operation that produced it
type SimError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *SimError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error
func (e *SimError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether the run must abort
func (e *SimError) IsFatal() bool {
	switch e.Category {
	case ErrorCategoryFatal, ErrorCategoryConfiguration, ErrorCategoryData:
		return true
	default:
		return false
	}
}

// New creates a categorised error without an underlying cause
func New(category ErrorCategory, component, operation, message string) *SimError {
	return &SimError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// Wrap attaches a category to err. Returns nil for a nil err.
func Wrap(err error, category ErrorCategory, component, operation string) *SimError {
	if err == nil {
		return nil
	}
	return &SimError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
	}
}

// IsFatal reports whether any SimError in err's chain is fatal.
// Errors that are not categorised are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var simErr *SimError
	if errors.As(err, &simErr) {
		return simErr.IsFatal()
	}
	return true
}

func NewConfigurationError(component, operation, message string) *SimError {
	return New(ErrorCategoryConfiguration, component, operation, message)
}

func NewDataError(component, operation string, err error) *SimError {
	return Wrap(err, ErrorCategoryData, component, operation)
}

func NewStorageError(component, operation string, err error) *SimError {
	return Wrap(err, ErrorCategoryStorage, component, operation)
}

func NewNetworkError(component, operation string, err error) *SimError {
	return Wrap(err, ErrorCategoryNetwork, component, operation)
}
