// Package goal checks whether a planned world state satisfies an intent
// written as an expr-lang boolean expression over attribute names, e.g.
//
//	A >= 1 && Register == 1
//
// Planning itself never consults a goal: a returned plan is only known to be
// consistent with the domain's scripts, not to achieve anything in
// particular. Goals are the caller-side check of the latter.
//
// Every attribute is bound as a float64 variable of its name. Names that are
// not valid identifiers are reachable through $env, e.g. $env["has-key"].
package goal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/joeycumines/go-htn/internal/htn"
)

// ErrEmptyExpression is returned when compiling a blank goal.
var ErrEmptyExpression = errors.New("goal: empty expression")

// Goal is a compiled goal expression bound to an attribute name set.
// A Goal is safe for concurrent use.
type Goal struct {
	expression string
	names      []string
	program    *vm.Program
}

// Compile compiles expression against the attribute names. Referencing an
// unknown name is a compile error. Compiled programs are shared through a
// bounded package cache.
func Compile(expression string, names []string) (*Goal, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, ErrEmptyExpression
	}
	key := cacheKey(expression, names)
	program, ok := programs.Get(key)
	if !ok {
		var err error
		program, err = expr.Compile(expression,
			expr.Env(environment(names, nil)),
			expr.AsBool(),
		)
		if err != nil {
			return nil, fmt.Errorf("goal %q: %w", expression, err)
		}
		programs.Put(key, program)
	}
	return &Goal{
		expression: expression,
		names:      append([]string(nil), names...),
		program:    program,
	}, nil
}

// CompileFor compiles expression against the names of attrs.
func CompileFor(expression string, attrs *htn.AttributeSet) (*Goal, error) {
	return Compile(expression, attrs.Names())
}

// Expression returns the source text.
func (g *Goal) Expression() string {
	return g.expression
}

// Eval evaluates the goal against values, given in the order of the names
// the goal was compiled with.
func (g *Goal) Eval(values []htn.AttributeValue) (bool, error) {
	if len(values) != len(g.names) {
		return false, fmt.Errorf("goal %q: got %d values for %d attributes", g.expression, len(values), len(g.names))
	}
	out, err := expr.Run(g.program, environment(g.names, values))
	if err != nil {
		return false, fmt.Errorf("goal %q: %w", g.expression, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("goal %q: non-boolean result %T", g.expression, out)
	}
	return ok, nil
}

// Satisfied evaluates the goal against ws, whose attributes must line up with
// the compiled names.
func (g *Goal) Satisfied(ws *htn.WorldState) (bool, error) {
	return g.Eval(ws.Values())
}

// environment binds names to values (zero when values is nil).
func environment(names []string, values []htn.AttributeValue) map[string]any {
	env := make(map[string]any, len(names))
	for i, name := range names {
		var v float64
		if values != nil {
			v = float64(values[i])
		}
		env[name] = v
	}
	return env
}

func cacheKey(expression string, names []string) string {
	return expression + "\x00" + strings.Join(names, "\x00")
}
