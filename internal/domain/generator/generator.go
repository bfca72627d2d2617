// Package generator produces random, schema-conforming parameter sets for
// exercising the score engines.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
	"github.com/okian/cardiorisk/internal/domain/types"
)

// Range used for numeric fields that carry no constraint.
const (
	unconstrainedMin = 0
	unconstrainedMax = 100000
)

// Generator samples parameter sets. It is not safe for concurrent use; give
// every goroutine its own Generator.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// New returns a generator whose output is fully determined by seed.
func New(seed int64) *Generator {
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}
}

// ForCase returns the generator for case i of a run seeded with seed.
// Cases are independent, so any single case can be replayed on its own.
func ForCase(seed int64, i int) *Generator {
	return New(CaseSeed(seed, i))
}

// CaseSeed derives the seed of case i with a splitmix64 step.
func CaseSeed(seed int64, i int) int64 {
	z := uint64(seed) + uint64(i+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// Seed returns the seed the generator was built with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Generate samples a parameter set for the score id. Optional fields are
// omitted on a fair coin, then the score's consistency adjustments apply.
func (g *Generator) Generate(id string) (model.Parameters, error) {
	schema, err := schemas.Get(id)
	if err != nil {
		return nil, err
	}

	params := make(model.Parameters, schema.Len())
	for _, f := range schema.Fields() {
		if !f.Required && g.coin() {
			continue
		}
		v, err := g.sample(f)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", id, err)
		}
		params[f.Name] = v
	}

	if adjust, ok := adjusters[id]; ok {
		adjust(g, schema, params)
	}
	return params, nil
}

func (g *Generator) coin() bool {
	return g.rng.IntN(2) == 1
}

func bounds(f types.Field) (float64, float64) {
	if f.Constraint == nil {
		return unconstrainedMin, unconstrainedMax
	}
	return f.Constraint.Min, f.Constraint.Max
}

func (g *Generator) sample(f types.Field) (model.Value, error) {
	switch f.Kind {
	case types.KindBool:
		return model.Bool(g.coin()), nil
	case types.KindInt:
		lo, hi := bounds(f)
		from, to := int64(math.Ceil(lo)), int64(math.Floor(hi))
		return model.Int(from + g.rng.Int64N(to-from+1)), nil
	case types.KindFloat:
		lo, hi := bounds(f)
		return model.Float(lo + g.rng.Float64()*(hi-lo)), nil
	}
	return model.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, f.Kind)
}
