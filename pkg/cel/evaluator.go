// Package cel compiles user-supplied filter expressions evaluated against
// decoded status records.
package cel

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
)

type Evaluator struct {
	env *cel.Env
}

func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Evaluator{env: env}, nil
}

func (e *Evaluator) ValidateExpression(expression string) error {
	_, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("CEL expression validation failed: %w", issues.Err())
	}
	return nil
}

// CompileFilter compiles expression into a reusable boolean predicate over a
// record. Compilation happens once per run, not per message.
func (e *Evaluator) CompileFilter(expression string) (*Filter, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile CEL expression: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("filter expression must return bool, got %v", ast.OutputType())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return &Filter{expression: expression, program: program}, nil
}

type Filter struct {
	expression string
	program    cel.Program
}

func (f *Filter) Expression() string {
	return f.expression
}

func (f *Filter) Eval(ctx context.Context, record map[string]interface{}) (bool, error) {
	result, _, err := f.program.ContextEval(ctx, map[string]interface{}{
		"record": record,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL expression: %w", err)
	}

	boolVal, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return bool, got %T", result.Value())
	}

	return boolVal, nil
}
