package record

import (
	"errors"
	"fmt"
)

// ValidationError reports a data-model violation detected during an Add*
// call or during strict validation at finalize time. It identifies the
// sub-object and field that failed.
type ValidationError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Component names the sub-object ("inputs", "lattice", "outputs",
	// "summary", "run_information", "simulation_metadata", "datapoint").
	Component string

	// Field names the offending field within the component, when known.
	Field string

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes validation errors.
type ErrorCode string

const (
	// ErrCodeShapeMismatch indicates a datum/location cardinality or
	// dimensionality mismatch.
	ErrCodeShapeMismatch ErrorCode = "SHAPE_MISMATCH"

	// ErrCodeMissingRequiredField indicates a blank field where the
	// all-or-nothing rule requires a value.
	ErrCodeMissingRequiredField ErrorCode = "MISSING_REQUIRED_FIELD"

	// ErrCodeUnsupportedType indicates a datum or attribute type outside
	// the recognized set.
	ErrCodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"

	// ErrCodeInvalidState indicates an operation invalid in the current
	// lifecycle state (e.g. serializing before finalize).
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (component=%s, field=%s)", e.Code, e.Message, e.Component, e.Field)
	}
	return fmt.Sprintf("%s: %s (component=%s)", e.Code, e.Message, e.Component)
}

// IsShapeError reports whether err is a SHAPE_MISMATCH validation error.
// Uses errors.As to handle wrapped errors.
func IsShapeError(err error) bool { return hasCode(err, ErrCodeShapeMismatch) }

// IsMissingFieldError reports whether err is a MISSING_REQUIRED_FIELD
// validation error.
func IsMissingFieldError(err error) bool { return hasCode(err, ErrCodeMissingRequiredField) }

// IsUnsupportedTypeError reports whether err is an UNSUPPORTED_TYPE
// validation error.
func IsUnsupportedTypeError(err error) bool { return hasCode(err, ErrCodeUnsupportedType) }

// IsStateError reports whether err is an INVALID_STATE validation error.
func IsStateError(err error) bool { return hasCode(err, ErrCodeInvalidState) }

func hasCode(err error, code ErrorCode) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}

func newShapeError(component, field, message string) *ValidationError {
	return &ValidationError{Code: ErrCodeShapeMismatch, Component: component, Field: field, Message: message}
}

func newMissingFieldError(component, field, message string) *ValidationError {
	return &ValidationError{Code: ErrCodeMissingRequiredField, Component: component, Field: field, Message: message}
}

func newUnsupportedTypeError(component, field, message string) *ValidationError {
	return &ValidationError{Code: ErrCodeUnsupportedType, Component: component, Field: field, Message: message}
}

func newStateError(message string) *ValidationError {
	return &ValidationError{Code: ErrCodeInvalidState, Component: "datapoint", Message: message}
}
