// Package types contains the field and schema descriptors shared by validation,
// scoring, generation and rendering.
package types

import (
	"encoding/json"
	"fmt"
)

// Kind is the primitive type of a score field.
type Kind int

// Supported field kinds.
const (
	KindInt Kind = iota + 1
	KindFloat
	KindBool
)

// String returns the lower-case kind name used in schema listings.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind by name for JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Numeric reports whether values of this kind carry a number.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// Constraint is a closed interval [Min, Max].
type Constraint struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// NewConstraint builds a constraint. Schemas are declared at package init, so
// an inverted interval is a programming error and panics.
func NewConstraint(minValue, maxValue float64) *Constraint {
	if minValue > maxValue {
		panic(fmt.Sprintf("invalid constraint [%v, %v]", minValue, maxValue))
	}
	return &Constraint{Min: minValue, Max: maxValue}
}

// Contains reports whether v lies within the interval, bounds included.
func (c Constraint) Contains(v float64) bool {
	return v >= c.Min && v <= c.Max
}

// String formats the interval for error messages.
func (c Constraint) String() string {
	return fmt.Sprintf("[%g, %g]", c.Min, c.Max)
}

// Field describes one input of a score.
type Field struct {
	Name       string      `json:"name" yaml:"name"`
	Kind       Kind        `json:"type" yaml:"type"`
	Constraint *Constraint `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Required   bool        `json:"required" yaml:"required"`

	// Alias is the identifier combination rules use to reference the field.
	Alias string `json:"alias" yaml:"alias"`
	Unit  string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

func (f Field) clone() Field {
	if f.Constraint != nil {
		c := *f.Constraint
		f.Constraint = &c
	}
	return f
}

// Bool declares a required boolean field.
func Bool(name, alias string) Field {
	return Field{Name: name, Kind: KindBool, Required: true, Alias: alias}
}

// Int declares a required integer field bounded by [minValue, maxValue].
func Int(name, alias string, minValue, maxValue float64) Field {
	return Field{Name: name, Kind: KindInt, Constraint: NewConstraint(minValue, maxValue), Required: true, Alias: alias}
}

// Float declares a required float field bounded by [minValue, maxValue].
func Float(name, alias string, minValue, maxValue float64) Field {
	return Field{Name: name, Kind: KindFloat, Constraint: NewConstraint(minValue, maxValue), Required: true, Alias: alias}
}

// Optional returns a copy of f that may be omitted from input.
func (f Field) Optional() Field {
	f.Required = false
	return f
}

// WithUnit returns a copy of f carrying a display unit.
func (f Field) WithUnit(unit string) Field {
	f.Unit = unit
	return f
}

// Schema is the ordered, immutable set of fields a score accepts.
type Schema struct {
	id     string
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema. Duplicate names or aliases panic.
func NewSchema(id string, fields ...Field) Schema {
	s := Schema{
		id:     id,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	aliases := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("schema %q: duplicate field %q", id, f.Name))
		}
		if _, dup := aliases[f.Alias]; dup || f.Alias == "" {
			panic(fmt.Sprintf("schema %q: field %q has empty or duplicate alias %q", id, f.Name, f.Alias))
		}
		f = f.clone()
		aliases[f.Alias] = struct{}{}
		s.index[f.Name] = i
		s.fields[i] = f
	}
	return s
}

// ID returns the score identifier.
func (s Schema) ID() string { return s.id }

// Len returns the number of fields.
func (s Schema) Len() int { return len(s.fields) }

// Fields returns a copy of the fields in presentation order.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.clone()
	}
	return out
}

// Field looks a field up by name.
func (s Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i].clone(), true
}

// Names returns the field names in presentation order.
func (s Schema) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Required returns the fields that must be present.
func (s Schema) Required() []Field {
	return s.filter(true)
}

// Optional returns the fields that may be omitted.
func (s Schema) Optional() []Field {
	return s.filter(false)
}

func (s Schema) filter(required bool) []Field {
	var out []Field
	for _, f := range s.fields {
		if f.Required == required {
			out = append(out, f.clone())
		}
	}
	return out
}

type schemaDoc struct {
	ID     string  `json:"id" yaml:"id"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// MarshalJSON renders the schema as {"id": ..., "fields": [...]}.
func (s Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(schemaDoc{ID: s.id, Fields: s.Fields()})
}

// MarshalYAML renders the schema the same way for YAML output.
func (s Schema) MarshalYAML() (interface{}, error) {
	return schemaDoc{ID: s.id, Fields: s.Fields()}, nil
}
