package model

import (
	"sort"

	"github.com/okian/cardiorisk/internal/domain/types"
)

// Parameters maps field names to typed values.
type Parameters map[string]Value

// Has reports whether name is present.
func (p Parameters) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Bool returns the boolean value of name; absent fields read as false.
func (p Parameters) Bool(name string) bool {
	return p[name].Bool()
}

// Int returns the integer value of name and whether it was present.
func (p Parameters) Int(name string) (int64, bool) {
	v, ok := p[name]
	return v.Int(), ok
}

// Float returns the numeric value of name and whether it was present.
func (p Parameters) Float(name string) (float64, bool) {
	v, ok := p[name]
	return v.Float(), ok
}

// Keys returns the field names in lexical order.
func (p Parameters) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ordered returns the names present in p following the schema order.
func (p Parameters) Ordered(schema types.Schema) []string {
	out := make([]string, 0, len(p))
	for _, name := range schema.Names() {
		if p.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// Clone returns a shallow copy; values are immutable so this is a full copy.
func (p Parameters) Clone() Parameters {
	out := make(Parameters, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Raw formats every value as the string a form would submit.
func (p Parameters) Raw() map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v.String()
	}
	return out
}
