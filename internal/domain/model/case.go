package model

// Case is one generated parameter set queued for self-check verification.
type Case struct {
	ID     string     `json:"id" yaml:"id"`
	Score  string     `json:"score" yaml:"score"`
	Seed   int64      `json:"seed" yaml:"seed"`
	Params Parameters `json:"params" yaml:"params"`
}

// Verdict is the outcome of verifying one case.
type Verdict struct {
	Case     Case     `json:"case" yaml:"case"`
	Passed   bool     `json:"passed" yaml:"passed"`
	Failures []string `json:"failures,omitempty" yaml:"failures,omitempty"`
	Result   *Result  `json:"result,omitempty" yaml:"result,omitempty"`
}
