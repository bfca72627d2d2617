// Package validation coerces raw score inputs into typed parameter mappings.
//
// Strict validation reports every failing field of a call at once, joined in
// schema order. Partial validation is the relaxed per-keystroke mode used by
// interactive entry: only coercion is checked.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/types"
)

// RawInputs maps field names to raw values: strings from a form, or bools and
// numbers from a decoded parameter file.
type RawInputs map[string]any

// Validate coerces raw into a Parameters mapping conforming to schema.
// Keys the schema does not declare are ignored.
func Validate(schema types.Schema, raw RawInputs) (model.Parameters, error) {
	params := make(model.Parameters, schema.Len())
	var errs []error
	for _, f := range schema.Fields() {
		rv, ok := raw[f.Name]
		if !ok || blank(rv) {
			if f.Required {
				errs = append(errs, &MissingFieldError{Field: f.Name})
			}
			continue
		}
		v, err := coerce(f, rv)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := checkRange(f, v); err != nil {
			errs = append(errs, err)
			continue
		}
		params[f.Name] = v
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return params, nil
}

// ValidatePartial checks a single in-progress value. An empty value is
// always accepted; otherwise only coercion is checked.
func ValidatePartial(schema types.Schema, field, raw string) error {
	f, ok := schema.Field(field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	_, err := coerce(f, raw)
	return err
}

// Check verifies an already typed mapping against schema. Unlike Validate it
// rejects keys outside the schema, since a typed mapping is expected to have
// been produced for this schema.
func Check(schema types.Schema, params model.Parameters) error {
	var errs []error
	for _, f := range schema.Fields() {
		v, ok := params[f.Name]
		if !ok {
			if f.Required {
				errs = append(errs, &MissingFieldError{Field: f.Name})
			}
			continue
		}
		if !kindFits(f.Kind, v.Kind()) {
			errs = append(errs, &TypeError{Field: f.Name, Kind: f.Kind, Raw: v.Any()})
			continue
		}
		if err := checkRange(f, v); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range params.Keys() {
		if _, ok := schema.Field(name); !ok {
			errs = append(errs, &UnknownFieldError{Field: name})
		}
	}
	return errors.Join(errs...)
}

func kindFits(want, got types.Kind) bool {
	return want == got || (want == types.KindFloat && got == types.KindInt)
}

func checkRange(f types.Field, v model.Value) error {
	if f.Constraint == nil || !f.Kind.Numeric() {
		return nil
	}
	x := v.Float()
	if !f.Constraint.Contains(x) {
		return &RangeError{Field: f.Name, Value: x, Min: f.Constraint.Min, Max: f.Constraint.Max}
	}
	return nil
}
