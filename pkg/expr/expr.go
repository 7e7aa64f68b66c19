// Package expr builds condition predicates from boolean expressions such as
// "health < 20 && !paused", evaluated with govaluate against parameters read from the
// machine context.
//
// Nested parameter maps are flattened to dotted names. Dotted names must be escaped in
// expressions: "[player.health] < 20".
package expr

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Knetic/govaluate"

	fsm "github.com/stateforward/go-fsm"
)

var ErrNotBoolean = errors.New("expr: expression did not evaluate to a boolean")

// Params supplies the expression's variables for the current tick.
type Params func(ctx fsm.Context) map[string]any

// Expression is a parsed boolean expression.
type Expression struct {
	source    string
	constant  *bool
	evaluable *govaluate.EvaluableExpression
}

// Parse compiles expression. The empty expression is always true.
func Parse(expression string) (*Expression, error) {
	source := strings.TrimSpace(expression)
	e := &Expression{source: source}
	switch strings.ToLower(source) {
	case "", "true":
		e.constant = ptr(true)
		return e, nil
	case "false":
		e.constant = ptr(false)
		return e, nil
	}
	evaluable, err := govaluate.NewEvaluableExpression(source)
	if err != nil {
		return nil, fmt.Errorf("expr: parse %q: %w", source, err)
	}
	e.evaluable = evaluable
	return e, nil
}

func ptr[T any](v T) *T {
	return &v
}

func (e *Expression) String() string {
	return e.source
}

// Vars lists the variables the expression reads.
func (e *Expression) Vars() []string {
	if e.evaluable == nil {
		return nil
	}
	return e.evaluable.Vars()
}

func (e *Expression) Evaluate(params map[string]any) (bool, error) {
	if e.constant != nil {
		return *e.constant, nil
	}
	result, err := e.evaluable.Evaluate(Flatten(params))
	if err != nil {
		return false, fmt.Errorf("expr: evaluate %q: %w", e.source, err)
	}
	value, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q gave %v", ErrNotBoolean, e.source, result)
	}
	return value, nil
}

// Predicate parses expression into a condition predicate. Evaluation errors make the
// predicate false and are logged on logger, slog.Default() when none is given.
func Predicate(expression string, params Params, maybeLogger ...*slog.Logger) (fsm.Predicate, error) {
	e, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	logger := slog.Default()
	if len(maybeLogger) > 0 && maybeLogger[0] != nil {
		logger = maybeLogger[0]
	}
	return func(ctx fsm.Context) bool {
		var values map[string]any
		if params != nil {
			values = params(ctx)
		}
		ok, err := e.Evaluate(values)
		if err != nil {
			logger.Warn("condition failed", "state", ctx.Current(), "expression", e.source, "error", err)
			return false
		}
		return ok
	}, nil
}

// MustPredicate is Predicate for expressions known at build time. It panics on parse errors.
func MustPredicate(expression string, params Params) fsm.Predicate {
	predicate, err := Predicate(expression, params)
	if err != nil {
		slog.Error("invalid condition", "expression", expression, "error", err)
		panic(err)
	}
	return predicate
}

// Flatten copies params and adds every nested map value under its dotted path.
func Flatten(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	flatten("", params, out)
	return out
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch vv := v.(type) {
		case map[string]any:
			flatten(key, vv, out)
		default:
			out[key] = vv
		}
	}
}
