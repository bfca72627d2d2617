// Package scoring implements the clinical score engines.
//
// Every engine is a pure function of a validated parameter mapping. Engines
// decode the string-keyed mapping into a fixed-shape input struct, check the
// score's combination rules and evaluate the published model. Engines hold no
// mutable state and are safe for concurrent use.
package scoring

import (
	"fmt"
	"sync"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
	"github.com/okian/cardiorisk/internal/domain/types"
)

// Engine computes one score.
type Engine interface {
	// ID returns the score identifier.
	ID() string
	// Schema returns the input schema the engine expects.
	Schema() types.Schema
	// Rules returns the names of the engine's combination rules.
	Rules() []string
	// Compute evaluates the model. params must already conform to Schema.
	Compute(params model.Parameters) (model.Result, error)
}

// engine carries what every concrete engine shares.
type engine struct {
	schema types.Schema
	rules  *ruleSet
}

func newEngine(id string, rules ...rule) (engine, error) {
	schema := schemas.MustGet(id)
	rs, err := compileRules(schema, rules...)
	if err != nil {
		return engine{}, err
	}
	return engine{schema: schema, rules: rs}, nil
}

func (e engine) ID() string           { return e.schema.ID() }
func (e engine) Schema() types.Schema { return e.schema }
func (e engine) Rules() []string      { return e.rules.names() }

func (e engine) check(params model.Parameters) error {
	return e.rules.check(params)
}

func (e engine) result() model.Result {
	return model.Result{Score: e.schema.ID()}
}

// Registry holds one engine per score in presentation order.
type Registry struct {
	engines map[string]Engine
	order   []string
}

type constructor func() (Engine, error)

var constructors = []constructor{
	newCHA2DS2VASc,
	newHASBLED,
	newSMART,
	newSMARTReach,
	newCHARGEAF,
	newMAGGIC,
	newBarcelona,
	newABCStroke,
	newABCBleeding,
	newABCDeath,
}

// NewRegistry builds every engine and compiles its rules.
func NewRegistry() (*Registry, error) {
	r := &Registry{engines: make(map[string]Engine, len(constructors))}
	for _, build := range constructors {
		e, err := build()
		if err != nil {
			return nil, err
		}
		r.engines[e.ID()] = e
		r.order = append(r.order, e.ID())
	}
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns a process-wide registry built on first use.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = NewRegistry()
	})
	return defaultRegistry, defaultErr
}

// IDs returns the registered score identifiers in presentation order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Engine returns the engine for id.
func (r *Registry) Engine(id string) (Engine, error) {
	e, ok := r.engines[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScore, id)
	}
	return e, nil
}

// Compute looks the engine up and evaluates it.
func (r *Registry) Compute(id string, params model.Parameters) (model.Result, error) {
	e, err := r.Engine(id)
	if err != nil {
		return model.Result{}, err
	}
	return e.Compute(params)
}
