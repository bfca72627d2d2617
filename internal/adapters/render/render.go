// Package render prints schemas, parameters, results and self-check
// reports as text tables, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/types"
	"github.com/okian/cardiorisk/internal/selfcheck"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Outcome is one score of a multi-score evaluation.
type Outcome struct {
	Score  string        `json:"score" yaml:"score"`
	Result *model.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Renderer writes values to an output stream.
type Renderer struct {
	w         io.Writer
	format    string
	precision int
	colorMode string

	low, moderate, high, failed func(...any) string
}

// New creates a Renderer writing to w.
func New(w io.Writer, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		w:         w,
		format:    FormatText,
		precision: 2,
		colorMode: ColorAuto,
	}
	for _, opt := range opts {
		opt(r)
	}
	switch r.format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, r.format)
	}
	r.low = r.paint(color.FgGreen)
	r.moderate = r.paint(color.FgYellow)
	r.high = r.paint(color.FgRed, color.Bold)
	r.failed = r.paint(color.FgRed)
	return r, nil
}

func (r *Renderer) paint(attrs ...color.Attribute) func(...any) string {
	c := color.New(attrs...)
	switch r.colorMode {
	case ColorNever:
		return fmt.Sprint
	case ColorAlways:
		c.EnableColor()
	}
	return c.SprintFunc()
}

// structured writes v as JSON or YAML. It reports false in text mode.
func (r *Renderer) structured(v any) (bool, error) {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("error writing JSON output: %w", err)
		}
		return true, nil
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("error writing YAML output: %w", err)
		}
		if err := enc.Close(); err != nil {
			return true, fmt.Errorf("error writing YAML output: %w", err)
		}
		return true, nil
	}
	return false, nil
}

// Scores prints the catalogue of schemas.
func (r *Renderer) Scores(list []types.Schema) error {
	if ok, err := r.structured(scoreViews(list)); ok {
		return err
	}
	return r.scoresTable(list)
}

// Schema prints the fields of one schema.
func (r *Renderer) Schema(s types.Schema) error {
	if ok, err := r.structured(s); ok {
		return err
	}
	return r.schemaTable(s)
}

// Parameters prints a parameter mapping in schema order.
func (r *Renderer) Parameters(s types.Schema, p model.Parameters) error {
	if ok, err := r.structured(p); ok {
		return err
	}
	return r.parametersTable(s, p)
}

// Result prints one score result.
func (r *Renderer) Result(res model.Result) error {
	if ok, err := r.structured(res); ok {
		return err
	}
	return r.resultText(res)
}

// Outcomes prints the results of a multi-score evaluation.
func (r *Renderer) Outcomes(outcomes []Outcome) error {
	if ok, err := r.structured(outcomes); ok {
		return err
	}
	return r.outcomesTable(outcomes)
}

// reportView adds the failing verdicts to the report summary.
type reportView struct {
	selfcheck.Report `yaml:",inline"`

	Failures []model.Verdict `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Report prints a self-check report with its failures.
func (r *Renderer) Report(rep *selfcheck.Report) error {
	if ok, err := r.structured(reportView{Report: *rep, Failures: rep.Failures()}); ok {
		return err
	}
	return r.reportText(rep)
}

type scoreView struct {
	ID       string `json:"id" yaml:"id"`
	Fields   int    `json:"fields" yaml:"fields"`
	Required int    `json:"required" yaml:"required"`
	Optional int    `json:"optional" yaml:"optional"`
}

func scoreViews(list []types.Schema) []scoreView {
	out := make([]scoreView, len(list))
	for i, s := range list {
		out[i] = scoreView{
			ID:       s.ID(),
			Fields:   s.Len(),
			Required: len(s.Required()),
			Optional: len(s.Optional()),
		}
	}
	return out
}
