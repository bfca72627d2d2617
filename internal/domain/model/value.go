// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"strconv"

	"github.com/okian/cardiorisk/internal/domain/types"
)

// Value is a typed field value: exactly one of int, float or bool.
type Value struct {
	kind types.Kind
	i    int64
	f    float64
	b    bool
}

// Int wraps an integer value.
func Int(v int64) Value { return Value{kind: types.KindInt, i: v} }

// Float wraps a float value.
func Float(v float64) Value { return Value{kind: types.KindFloat, f: v} }

// Bool wraps a boolean value.
func Bool(v bool) Value { return Value{kind: types.KindBool, b: v} }

// Kind returns the kind the value was built with; zero for an empty Value.
func (v Value) Kind() types.Kind { return v.kind }

// IsZero reports whether v was never set.
func (v Value) IsZero() bool { return v.kind == 0 }

// Int returns the integer payload. Floats are truncated.
func (v Value) Int() int64 {
	if v.kind == types.KindFloat {
		return int64(v.f)
	}
	return v.i
}

// Float returns the numeric payload as float64.
func (v Value) Float() float64 {
	if v.kind == types.KindInt {
		return float64(v.i)
	}
	return v.f
}

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Any returns the payload as a plain Go value.
func (v Value) Any() any {
	switch v.kind {
	case types.KindInt:
		return v.i
	case types.KindFloat:
		return v.f
	case types.KindBool:
		return v.b
	default:
		return nil
	}
}

// String formats the value so that it parses back to the same value.
func (v Value) String() string {
	switch v.kind {
	case types.KindInt:
		return strconv.FormatInt(v.i, 10)
	case types.KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case types.KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// MarshalJSON emits the bare payload.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// MarshalYAML emits the bare payload.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Any(), nil
}
