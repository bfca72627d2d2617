package scoring_test

import (
	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
	"github.com/okian/cardiorisk/internal/domain/scoring"
	"github.com/okian/cardiorisk/internal/domain/types"
	"github.com/okian/cardiorisk/internal/domain/validation"
)

// build validates raw against the schema of id. Boolean fields not named in
// raw default to false so tests only spell out what matters.
func build(id string, raw validation.RawInputs) model.Parameters {
	schema := schemas.MustGet(id)
	full := validation.RawInputs{}
	for _, f := range schema.Fields() {
		if f.Kind == types.KindBool {
			full[f.Name] = false
		}
	}
	for k, v := range raw {
		full[k] = v
	}
	params, err := validation.Validate(schema, full)
	if err != nil {
		panic(err)
	}
	return params
}

func compute(id string, params model.Parameters) (model.Result, error) {
	reg, err := scoring.Default()
	if err != nil {
		return model.Result{}, err
	}
	return reg.Compute(id, params)
}

func endpoint(r model.Result, name string) []float64 {
	e, ok := r.Endpoint(name)
	if !ok {
		return nil
	}
	return e.Values
}

func branchEndpoint(r model.Result, branch, name string) []float64 {
	b, ok := r.Branch(branch)
	if !ok {
		return nil
	}
	e, ok := b.Endpoint(name)
	if !ok {
		return nil
	}
	return e.Values
}
