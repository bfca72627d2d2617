package scoring

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/types"
)

// rule is a cross-field constraint written as a CEL expression over field
// aliases. The expression must evaluate to true for a valid combination.
type rule struct {
	name    string
	expr    string
	fields  []string
	message string
}

type compiledRule struct {
	rule
	program cel.Program
}

// ruleSet holds the compiled rules of one score. It is read-only after
// construction and safe for concurrent use.
type ruleSet struct {
	score  string
	fields []types.Field
	rules  []compiledRule
}

func celType(k types.Kind) *cel.Type {
	switch k {
	case types.KindInt:
		return cel.IntType
	case types.KindFloat:
		return cel.DoubleType
	default:
		return cel.BoolType
	}
}

// compileRules builds a CEL environment declaring every field of schema by
// alias and compiles rules against it.
func compileRules(schema types.Schema, rules ...rule) (*ruleSet, error) {
	rs := &ruleSet{score: schema.ID(), fields: schema.Fields()}
	if len(rules) == 0 {
		return rs, nil
	}

	opts := make([]cel.EnvOption, 0, len(rs.fields))
	for _, f := range rs.fields {
		opts = append(opts, cel.Variable(f.Alias, celType(f.Kind)))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment for %s: %w", schema.ID(), err)
	}

	for _, r := range rules {
		ast, iss := env.Compile(r.expr)
		if iss != nil && iss.Err() != nil {
			return nil, fmt.Errorf("compile rule %s/%s: %w", schema.ID(), r.name, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("rule %s/%s must return bool, got %s", schema.ID(), r.name, ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("program rule %s/%s: %w", schema.ID(), r.name, err)
		}
		rs.rules = append(rs.rules, compiledRule{rule: r, program: prg})
	}
	return rs, nil
}

// activation binds every declared alias; absent optional fields read as zero.
func (rs *ruleSet) activation(params model.Parameters) map[string]any {
	act := make(map[string]any, len(rs.fields))
	for _, f := range rs.fields {
		v := params[f.Name]
		switch f.Kind {
		case types.KindInt:
			act[f.Alias] = v.Int()
		case types.KindFloat:
			act[f.Alias] = v.Float()
		default:
			act[f.Alias] = v.Bool()
		}
	}
	return act
}

// check evaluates every rule and returns the first violation.
func (rs *ruleSet) check(params model.Parameters) error {
	if len(rs.rules) == 0 {
		return nil
	}
	act := rs.activation(params)
	for _, r := range rs.rules {
		out, _, err := r.program.Eval(act)
		if err != nil {
			return fmt.Errorf("%w: %s/%s: %v", ErrRuleEvaluation, rs.score, r.name, err)
		}
		if ok, isBool := out.Value().(bool); !isBool || !ok {
			return &CombinationError{Score: rs.score, Rule: r.name, Fields: r.fields, Message: r.message}
		}
	}
	return nil
}

// names returns the rule names in declaration order.
func (rs *ruleSet) names() []string {
	out := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.name
	}
	return out
}
