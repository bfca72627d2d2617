package validation

import (
	"errors"
	"fmt"

	"github.com/okian/cardiorisk/internal/domain/types"
)

// Sentinel error kinds. Every field error returned by this package matches
// exactly one of them through errors.Is.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidType          = errors.New("invalid type")
	ErrOutOfRange           = errors.New("out of range")
	ErrUnknownField         = errors.New("unknown field")
)

// MissingFieldError reports a required field that is absent or blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMissingRequiredField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingRequiredField }

// TypeError reports a value that cannot be coerced to the field's kind.
type TypeError struct {
	Field string
	Kind  types.Kind
	Raw   any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: field %q expects %s, got %#v", ErrInvalidType, e.Field, e.Kind, e.Raw)
}

func (e *TypeError) Unwrap() error { return ErrInvalidType }

// RangeError reports a coerced value outside the field's constraint.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: field %q value %g not in [%g, %g]", ErrOutOfRange, e.Field, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// UnknownFieldError reports a typed parameter the schema does not declare.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownField, e.Field)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// FieldErrors splits a joined validation error into its per-field errors.
func FieldErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
