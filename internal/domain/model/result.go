package model

// Risk categories used by the point scores.
const (
	CategoryLow      = "Low"
	CategoryModerate = "Moderate"
	CategoryHigh     = "High"
)

// Branch names of the heart-failure survival result.
const (
	BranchWithoutBiomarkers = "without_biomarkers"
	BranchWithBiomarkers    = "with_biomarkers"
)

// Endpoint is a named output. Scalar endpoints carry one value, yearly
// series carry one value per year; callers must not assume an arity.
type Endpoint struct {
	Name   string    `json:"name" yaml:"name"`
	Unit   string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	Values []float64 `json:"values" yaml:"values,flow"`

	// LowerBound marks values cut off at a model horizon: the true value is
	// at least the one reported.
	LowerBound bool `json:"lower_bound,omitempty" yaml:"lower_bound,omitempty"`
}

// Scalar builds a single-valued endpoint.
func Scalar(name, unit string, v float64) Endpoint {
	return Endpoint{Name: name, Unit: unit, Values: []float64{v}}
}

// Series builds a multi-valued endpoint.
func Series(name, unit string, vs ...float64) Endpoint {
	return Endpoint{Name: name, Unit: unit, Values: vs}
}

// AtLeast marks the endpoint as a lower bound.
func (e Endpoint) AtLeast() Endpoint {
	e.LowerBound = true
	return e
}

// Value returns the first value, or zero for an empty endpoint.
func (e Endpoint) Value() float64 {
	if len(e.Values) == 0 {
		return 0
	}
	return e.Values[0]
}

// Branch is one variant of a multi-branch result.
type Branch struct {
	Name      string     `json:"name" yaml:"name"`
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`
}

// Endpoint looks an endpoint up by name.
func (b Branch) Endpoint(name string) (Endpoint, bool) {
	return findEndpoint(b.Endpoints, name)
}

// Result is the output of a score computation.
type Result struct {
	Score     string     `json:"score" yaml:"score"`
	Points    *int       `json:"points,omitempty" yaml:"points,omitempty"`
	Category  string     `json:"category,omitempty" yaml:"category,omitempty"`
	Endpoints []Endpoint `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
	Branches  []Branch   `json:"branches,omitempty" yaml:"branches,omitempty"`
}

// Endpoint looks a top-level endpoint up by name.
func (r Result) Endpoint(name string) (Endpoint, bool) {
	return findEndpoint(r.Endpoints, name)
}

// Branch looks a branch up by name.
func (r Result) Branch(name string) (Branch, bool) {
	for _, b := range r.Branches {
		if b.Name == name {
			return b, true
		}
	}
	return Branch{}, false
}

// BranchNames returns the branch names in result order.
func (r Result) BranchNames() []string {
	out := make([]string, len(r.Branches))
	for i, b := range r.Branches {
		out[i] = b.Name
	}
	return out
}

// AllEndpoints returns top-level and branch endpoints, branch endpoints
// prefixed with the branch name.
func (r Result) AllEndpoints() []Endpoint {
	out := make([]Endpoint, 0, len(r.Endpoints))
	out = append(out, r.Endpoints...)
	for _, b := range r.Branches {
		for _, e := range b.Endpoints {
			e.Name = b.Name + "." + e.Name
			out = append(out, e)
		}
	}
	return out
}

func findEndpoint(eps []Endpoint, name string) (Endpoint, bool) {
	for _, e := range eps {
		if e.Name == name {
			return e, true
		}
	}
	return Endpoint{}, false
}
