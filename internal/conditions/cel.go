// Package conditions implements the pkg/conditions.Compiler contract
// using CEL, the same expression language the teacher's own
// pkg/conditions/eval.go embeds via google/cel-go. Unlike the teacher,
// a ConditionDefinition here carries no declared parameter-type schema
// (spec.md §3), so this compiler builds its CEL environment without
// static variable declarations: expressions are parsed, not
// type-checked, and free identifiers are resolved dynamically from the
// context map at evaluation time.
package conditions

import (
	"fmt"
	"reflect"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/interpreter"

	rebaccond "github.com/relationkit/rebac/pkg/conditions"
)

// CELCompiler compiles condition expressions with CEL.
type CELCompiler struct {
	env *cel.Env
}

var _ rebaccond.Compiler = (*CELCompiler)(nil)

// NewCELCompiler constructs a CELCompiler with a shared, variable-free
// CEL environment. The environment is reused across Compile calls;
// building it once avoids re-registering CEL's standard library for
// every condition.
func NewCELCompiler() (*CELCompiler, error) {
	env, err := cel.NewEnv(cel.HomogeneousAggregateLiterals())
	if err != nil {
		return nil, fmt.Errorf("failed to construct CEL environment: %w", err)
	}

	return &CELCompiler{env: env}, nil
}

// Compile parses expression and returns a reusable predicate. Parsing
// (rather than the stricter Compile+Check pass the teacher's eval.go
// performs against a declared parameter schema) lets the predicate
// reference whatever keys happen to be present in a tuple or request
// context without requiring them to be declared up front.
func (c *CELCompiler) Compile(expression string) (rebaccond.Predicate, error) {
	ast, issues := c.env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to parse condition expression: %w", issues.Err())
	}

	program, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to construct condition program: %w", err)
	}

	return &celPredicate{program: program}, nil
}

type celPredicate struct {
	program cel.Program
}

// defaultingActivation resolves every identifier a condition expression
// references, including ones absent from the merged tuple/request
// context: a missing key resolves to CEL null instead of raising the
// interpreter's "no such attribute" runtime error. A predicate like
// `region == "EU"` evaluated with no "region" in context then compares
// null against a string, which CEL evaluates to false rather than
// erroring -- spec.md §8 scenario 5's "no context and no default on the
// tuple" case resolves to a plain false, not a ConditionEvaluationError.
type defaultingActivation struct {
	vars map[string]any
}

func (a defaultingActivation) ResolveName(name string) (any, bool) {
	if v, ok := a.vars[name]; ok {
		return v, true
	}

	return types.NullValue, true
}

func (a defaultingActivation) Parent() interpreter.Activation {
	return nil
}

func (p *celPredicate) Eval(context map[string]any) (bool, error) {
	out, _, err := p.program.Eval(defaultingActivation{vars: context})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate condition expression: %w", err)
	}

	native, err := out.ConvertToNative(reflect.TypeOf(false))
	if err != nil {
		// A non-boolean result is not a match for the strict boolean
		// equality spec.md §4.2 requires; surface it as a failure rather
		// than coercing truthiness.
		return false, fmt.Errorf("condition expression did not evaluate to bool: %w", err)
	}

	met, ok := native.(bool)
	if !ok {
		return false, fmt.Errorf("condition expression did not evaluate to bool")
	}

	return met, nil
}
