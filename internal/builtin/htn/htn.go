// Package htn is the native "htn" module for goja scripts. It lets domains be
// authored in JavaScript and planned from scripts:
//
//	const htn = require('htn');
//	const d = htn.define({
//	    name: 'example',
//	    attributes: [{name: 'Register', value: 0}, {name: 'A', value: 0}],
//	    primitives: [{name: 'go', precondition: ['CopyConst Register 1']}],
//	    compounds: [{name: 'root', methods: [{tasks: ['go']}]}],
//	    root: 'root',
//	});
//	const result = d.plan({strategy: 'condition'});
//	// result.plan => ['go']
//
// Objects passed to define follow the field names of domainfile.Definition's
// JSON form. Every define call is recorded on the Module, which is how a
// script host turns a script into a definition.
package htn

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dop251/goja"

	"github.com/joeycumines/go-htn/internal/domainfile"
	htnpkg "github.com/joeycumines/go-htn/internal/htn"
)

// ModuleName is the name scripts pass to require.
const ModuleName = "htn"

// Module is one instance of the native module. It is bound to a single
// runtime through Require and is not shared between runtimes.
type Module struct {
	mu     sync.Mutex
	defs   []*domainfile.Definition
	logger *slog.Logger
}

// NewModule creates a Module. logger receives planner output of plan calls;
// nil means slog.Default().
func NewModule(logger *slog.Logger) *Module {
	if logger == nil {
		logger = slog.Default()
	}
	return &Module{logger: logger}
}

// Definitions returns the definitions recorded by define, in call order.
func (m *Module) Definitions() []*domainfile.Definition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domainfile.Definition(nil), m.defs...)
}

// Require implements require.ModuleLoader.
func (m *Module) Require(runtime *goja.Runtime, module *goja.Object) {
	exports := module.Get("exports").(*goja.Object)

	_ = exports.Set("kinds", kinds())
	_ = exports.Set("strategies", []string{htnpkg.StrategyByCondition, htnpkg.StrategyByBestUtility})

	// define(definition) => handle
	_ = exports.Set("define", func(call goja.FunctionCall) goja.Value {
		def, err := definitionOf(call.Argument(0))
		if err != nil {
			panic(runtime.NewGoError(err))
		}
		m.mu.Lock()
		m.defs = append(m.defs, def)
		m.mu.Unlock()
		return m.handle(runtime, def)
	})

	// plan(definition, options?) => result
	_ = exports.Set("plan", func(call goja.FunctionCall) goja.Value {
		def, err := definitionOf(call.Argument(0))
		if err != nil {
			panic(runtime.NewGoError(err))
		}
		return m.plan(runtime, def, call.Argument(1))
	})

	// validate(definition) => array of problems, empty when valid
	_ = exports.Set("validate", func(call goja.FunctionCall) goja.Value {
		return runtime.ToValue(problems(call.Argument(0)))
	})
}

// handle wraps def for scripts, keeping the native value for round trips.
func (m *Module) handle(runtime *goja.Runtime, def *domainfile.Definition) goja.Value {
	obj := runtime.NewObject()
	_ = obj.Set("_native", def)
	_ = obj.Set("name", def.Name)
	_ = obj.Set("plan", func(call goja.FunctionCall) goja.Value {
		return m.plan(runtime, def, call.Argument(0))
	})
	_ = obj.Set("toYAML", func(call goja.FunctionCall) goja.Value {
		data, err := domainfile.Marshal(def)
		if err != nil {
			panic(runtime.NewGoError(err))
		}
		return runtime.ToValue(string(data))
	})
	return obj
}

// planOptions mirrors the options object accepted by plan.
type planOptions struct {
	Root     string
	Strategy string
	MaxSteps int64
}

func optionsOf(v goja.Value, runtime *goja.Runtime) planOptions {
	var opts planOptions
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return opts
	}
	obj := v.ToObject(runtime)
	if s := obj.Get("root"); s != nil && !goja.IsUndefined(s) {
		opts.Root = s.String()
	}
	if s := obj.Get("strategy"); s != nil && !goja.IsUndefined(s) {
		opts.Strategy = s.String()
	}
	if n := obj.Get("maxSteps"); n != nil && !goja.IsUndefined(n) {
		opts.MaxSteps = n.ToInteger()
	}
	return opts
}

func (m *Module) plan(runtime *goja.Runtime, def *domainfile.Definition, options goja.Value) goja.Value {
	opts := optionsOf(options, runtime)
	compiled, err := domainfile.Build(def)
	if err != nil {
		panic(runtime.NewGoError(err))
	}
	root, err := compiled.RootID(opts.Root)
	if err != nil {
		panic(runtime.NewGoError(err))
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = def.Strategy
	}
	if strategy == "" {
		strategy = htnpkg.StrategyByBestUtility
	}
	finder, err := htnpkg.FinderByName(strategy)
	if err != nil {
		panic(runtime.NewGoError(err))
	}

	planner := htnpkg.NewPlanner(compiled.Domain, finder,
		htnpkg.WithLogger(m.logger),
		htnpkg.WithMaxSteps(int(opts.MaxSteps)),
	)
	result, err := planner.Plan(root, compiled.Attributes.WorldState())
	if err != nil {
		panic(runtime.NewGoError(err))
	}
	names, err := result.Plan.Names(compiled.Domain)
	if err != nil {
		panic(runtime.NewGoError(err))
	}
	state, err := compiled.Attributes.Snapshot(result.State)
	if err != nil {
		panic(runtime.NewGoError(err))
	}
	warnings := make([]string, len(result.Warnings))
	for i, w := range result.Warnings {
		warnings[i] = w.Error()
	}
	stateObj := runtime.NewObject()
	for name, v := range state {
		_ = stateObj.Set(name, float64(v))
	}
	return runtime.ToValue(map[string]any{
		"plan":       names,
		"exhausted":  result.Exhausted,
		"steps":      result.Steps,
		"backtracks": result.Backtracks,
		"warnings":   warnings,
		"state":      stateObj,
	})
}

// definitionOf accepts a handle returned by define or a plain object.
func definitionOf(v goja.Value) (*domainfile.Definition, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, errors.New("htn: a domain definition is required")
	}
	if obj, ok := v.(*goja.Object); ok {
		if native := obj.Get("_native"); native != nil {
			if def, ok := native.Export().(*domainfile.Definition); ok {
				return def, nil
			}
		}
	}
	data, err := json.Marshal(v.Export())
	if err != nil {
		return nil, fmt.Errorf("htn: encoding definition: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var def domainfile.Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("htn: decoding definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

func problems(v goja.Value) []string {
	def, err := definitionOf(v)
	if err == nil {
		_, err = domainfile.Build(def)
	}
	if err == nil {
		return []string{}
	}
	var out []string
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func kinds() []string {
	var out []string
	for code := htnpkg.OpAdd; code.Valid(); code++ {
		for _, operand := range []htnpkg.OperandKind{htnpkg.OperandConst, htnpkg.OperandParam} {
			for _, target := range []htnpkg.Target{htnpkg.ToLeft, htnpkg.ToRegister} {
				out = append(out, htnpkg.Kind{Code: code, Operand: operand, Target: target}.String())
			}
		}
	}
	return out
}
