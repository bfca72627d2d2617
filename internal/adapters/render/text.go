package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/types"
	"github.com/okian/cardiorisk/internal/selfcheck"
)

func (r *Renderer) table(headers []string, data [][]string, align tw.Align) error {
	table := tablewriter.NewWriter(r.w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = align
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func (r *Renderer) number(x float64) string {
	return strconv.FormatFloat(x, 'f', r.precision, 64)
}

func (r *Renderer) values(e model.Endpoint) string {
	parts := make([]string, len(e.Values))
	for i, x := range e.Values {
		parts[i] = r.number(x)
	}
	out := strings.Join(parts, ", ")
	if e.LowerBound {
		return ">" + out
	}
	return out
}

func (r *Renderer) category(c string) string {
	switch c {
	case model.CategoryLow:
		return r.low(c)
	case model.CategoryModerate:
		return r.moderate(c)
	case model.CategoryHigh:
		return r.high(c)
	}
	return c
}

func (r *Renderer) scoresTable(list []types.Schema) error {
	data := make([][]string, 0, len(list))
	for _, s := range list {
		data = append(data, []string{
			s.ID(),
			strconv.Itoa(s.Len()),
			strconv.Itoa(len(s.Required())),
			strconv.Itoa(len(s.Optional())),
		})
	}
	return r.table([]string{"Score", "Fields", "Required", "Optional"}, data, tw.AlignLeft)
}

func (r *Renderer) schemaTable(s types.Schema) error {
	if _, err := fmt.Fprintf(r.w, "Score: %s\n", s.ID()); err != nil {
		return err
	}
	data := make([][]string, 0, s.Len())
	for _, f := range s.Fields() {
		bounds := "-"
		if f.Constraint != nil {
			bounds = f.Constraint.String()
		}
		required := "yes"
		if !f.Required {
			required = "no"
		}
		data = append(data, []string{f.Name, f.Kind.String(), bounds, required, f.Unit})
	}
	return r.table([]string{"Field", "Type", "Range", "Required", "Unit"}, data, tw.AlignLeft)
}

func (r *Renderer) parametersTable(s types.Schema, p model.Parameters) error {
	data := make([][]string, 0, len(p))
	for _, name := range p.Ordered(s) {
		data = append(data, []string{name, p[name].String()})
	}
	return r.table([]string{"Field", "Value"}, data, tw.AlignLeft)
}

func (r *Renderer) resultText(res model.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %s\n", res.Score)
	if res.Points != nil {
		fmt.Fprintf(&b, "Points: %d\n", *res.Points)
	}
	if res.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", r.category(res.Category))
	}
	if _, err := fmt.Fprint(r.w, b.String()); err != nil {
		return err
	}

	eps := res.AllEndpoints()
	data := make([][]string, 0, len(eps))
	for _, e := range eps {
		data = append(data, []string{e.Name, e.Unit, r.values(e)})
	}
	return r.table([]string{"Endpoint", "Unit", "Values"}, data, tw.AlignLeft)
}

// headline summarises a result as its first endpoint.
func (r *Renderer) headline(res *model.Result) string {
	eps := res.AllEndpoints()
	if len(eps) == 0 {
		return ""
	}
	e := eps[0]
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", e.Name, r.values(e), e.Unit))
}

func (r *Renderer) outcomesTable(outcomes []Outcome) error {
	data := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Result == nil {
			data = append(data, []string{o.Score, "", "", r.failed(o.Error)})
			continue
		}
		points := ""
		if o.Result.Points != nil {
			points = strconv.Itoa(*o.Result.Points)
		}
		data = append(data, []string{o.Score, points, r.category(o.Result.Category), r.headline(o.Result)})
	}
	return r.table([]string{"Score", "Points", "Category", "Result"}, data, tw.AlignLeft)
}

func (r *Renderer) reportText(rep *selfcheck.Report) error {
	data := make([][]string, 0, len(rep.Scores))
	for _, s := range rep.Scores {
		failed := strconv.Itoa(s.Failed)
		if s.Failed > 0 {
			failed = r.failed(failed)
		}
		data = append(data, []string{s.Score, strconv.Itoa(s.Cases), failed})
	}
	if err := r.table([]string{"Score", "Cases", "Failed"}, data, tw.AlignRight); err != nil {
		return err
	}

	failures := rep.Failures()
	var b strings.Builder
	for _, v := range failures {
		fmt.Fprintf(&b, "%s %s (seed %d, case %s)\n", r.failed("FAIL"), v.Case.Score, v.Case.Seed, v.Case.ID)
		for _, msg := range v.Failures {
			fmt.Fprintf(&b, "    %s\n", msg)
		}
	}
	fmt.Fprintf(&b, "Run %s: seed %d, %d verified, %d failed, %d duplicates skipped, took %v\n",
		rep.RunID, rep.Seed, rep.Total(), len(failures), rep.Duplicates, rep.Duration)
	_, err := fmt.Fprint(r.w, b.String())
	return err
}
