// Package apperrors defines the error taxonomy shared across the engine.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDeviceNotSet = errors.New("installed device name not set")
	ErrUnknownTool  = errors.New("unknown tool")
)

// ValidationError reports a field rejecting a candidate value.
// It is recoverable: the dispatcher converts it into a remediation
// message instead of failing the turn.
type ValidationError struct {
	Field  string // variable name of the rejecting field
	Value  any    // the rejected candidate
	Reason string // why it was rejected
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q rejected value %v: %s", e.Field, e.Value, e.Reason)
}

// NewValidationError creates a ValidationError for a field and candidate value.
func NewValidationError(field string, value any, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// StructuralError reports serialized configuration whose shape does not
// match the field tree. Unlike ValidationError it is not auto-corrected;
// it propagates to the caller.
type StructuralError struct {
	Field    string
	Expected string // "object", "array", ...
	Got      any
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("field %q expected %s, got %T", e.Field, e.Expected, e.Got)
}

// NewStructuralError creates a StructuralError for a field.
func NewStructuralError(field, expected string, got any) *StructuralError {
	return &StructuralError{Field: field, Expected: expected, Got: got}
}
