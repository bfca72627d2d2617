package selfcheck

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
	"github.com/okian/cardiorisk/internal/domain/scoring"
	"github.com/okian/cardiorisk/internal/domain/validation"
)

// engineVerifier runs one case through the same path a caller would use
// and collects every property the case violates.
type engineVerifier struct {
	registry *scoring.Registry
}

type findings []string

func (f *findings) addf(format string, args ...any) {
	*f = append(*f, fmt.Sprintf(format, args...))
}

// Verify implements worker.Verifier.
func (v engineVerifier) Verify(_ context.Context, c model.Case) (model.Verdict, error) {
	eng, err := v.registry.Engine(c.Score)
	if err != nil {
		return model.Verdict{}, err
	}
	schema := eng.Schema()

	var failed findings
	if err := validation.Check(schema, c.Params); err != nil {
		failed.addf("parameters do not conform: %v", err)
	}

	parsed, err := validation.Validate(schema, validation.RawInputs(c.Params.Raw()))
	switch {
	case err != nil:
		failed.addf("formatted parameters rejected: %v", err)
	case !reflect.DeepEqual(parsed, c.Params):
		failed.addf("formatted parameters parse to a different mapping")
	}

	res, err := eng.Compute(c.Params)
	if err != nil {
		failed.addf("compute: %v", err)
		return model.Verdict{Case: c, Failures: failed}, nil
	}
	again, err := eng.Compute(c.Params.Clone())
	if err != nil || !reflect.DeepEqual(res, again) {
		failed.addf("repeated computation differs")
	}

	if res.Points != nil && *res.Points < 0 {
		failed.addf("negative points %d", *res.Points)
	}
	for _, e := range res.AllEndpoints() {
		checkEndpoint(e, &failed)
	}
	if c.Score == schemas.BarcelonaHF {
		checkBranches(c.Params, res, &failed)
	}

	return model.Verdict{
		Case:     c,
		Passed:   len(failed) == 0,
		Failures: failed,
		Result:   &res,
	}, nil
}

func checkEndpoint(e model.Endpoint, failed *findings) {
	if len(e.Values) == 0 {
		failed.addf("endpoint %s has no values", e.Name)
	}
	for i, x := range e.Values {
		switch {
		case math.IsNaN(x) || math.IsInf(x, 0):
			failed.addf("endpoint %s[%d] is not finite", e.Name, i)
		case x < 0:
			failed.addf("endpoint %s[%d] is negative: %g", e.Name, i, x)
		case e.Unit == "%" && x > 100:
			failed.addf("endpoint %s[%d] exceeds 100%%: %g", e.Name, i, x)
		}
	}
}

// checkBranches asserts the survival result carries the biomarker branch
// exactly when a biomarker was supplied.
func checkBranches(params model.Parameters, res model.Result, failed *findings) {
	if _, ok := res.Branch(model.BranchWithoutBiomarkers); !ok {
		failed.addf("branch %s missing", model.BranchWithoutBiomarkers)
	}
	supplied := false
	for _, name := range schemas.BCNBiomarkers {
		supplied = supplied || params.Has(name)
	}
	_, ok := res.Branch(model.BranchWithBiomarkers)
	switch {
	case supplied && !ok:
		failed.addf("branch %s missing although a biomarker was supplied", model.BranchWithBiomarkers)
	case !supplied && ok:
		failed.addf("branch %s present without biomarkers", model.BranchWithBiomarkers)
	}
}

// collector is the worker.Sink that keeps every verdict of a run.
type collector struct {
	mu       sync.Mutex
	verdicts []model.Verdict
}

func (c *collector) Record(_ context.Context, v model.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verdicts = append(c.verdicts, v)
}

func (c *collector) all() []model.Verdict {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Verdict, len(c.verdicts))
	copy(out, c.verdicts)
	return out
}
