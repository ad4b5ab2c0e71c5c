package htn

import (
	"fmt"
	"log/slog"
)

// Planner computes plans over a Domain with a MethodFinder. A Planner holds
// no per-call state; Plan may be called concurrently as long as each call is
// given its own seed (or the seeds are not mutated meanwhile).
type Planner struct {
	domain   *Domain
	finder   MethodFinder
	logger   *slog.Logger
	maxSteps int
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger used for step-level debug output and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxSteps bounds the number of work items processed by one call. Zero
// (the default) means unbounded. Domains whose methods recurse without
// bottoming out never drain their work stack, so tools that accept
// third-party domains should set a bound.
func WithMaxSteps(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.maxSteps = n
		}
	}
}

// NewPlanner creates a Planner.
func NewPlanner(domain *Domain, finder MethodFinder, opts ...Option) *Planner {
	if domain == nil {
		panic("htn.NewPlanner: domain must not be nil")
	}
	if finder == nil {
		panic("htn.NewPlanner: finder must not be nil")
	}
	p := &Planner{
		domain: domain,
		finder: finder,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the outcome of one planning call.
type Result struct {
	// Plan is the accumulated sequence of primitive tasks. It is returned
	// whether or not the root task was fully decomposed.
	Plan Plan
	// State is the world state after the effects of Plan (and of the chosen
	// methods) were applied.
	State *WorldState
	// Exhausted is set when a failure had to be absorbed with no restore
	// point left, i.e. the search dropped part of the root decomposition.
	// A false value means every work item was satisfied.
	Exhausted bool
	// Steps counts processed work items.
	Steps int
	// Backtracks counts restore points consumed.
	Backtracks int
	// Warnings holds unrecognized operation diagnostics. Planning continues
	// past them using the script's register value.
	Warnings []error
}

// Plan runs a depth-first decomposition of root starting from a copy of
// seed, which is never modified.
//
// Errors are only returned for defects: unknown task ids, out of range
// attributes, a misbehaving MethodFinder, or the step limit. Search
// exhaustion is not an error.
func (p *Planner) Plan(root TaskID, seed *WorldState) (*Result, error) {
	if !p.domain.ContainsTask(root) {
		return nil, fmt.Errorf("root %s: %w", root, ErrTaskOutOfRange)
	}
	if seed == nil {
		seed = NewWorldState()
	}

	var (
		result   Result
		work     = []TaskID{root}
		restores []RestorePoint
		current  = newRestorePoint(seed)
		next     int
	)

	for len(work) > 0 {
		if p.maxSteps > 0 && result.Steps >= p.maxSteps {
			return nil, fmt.Errorf("%w: %d steps, %d pending", ErrStepLimit, result.Steps, len(work))
		}
		result.Steps++

		id := work[len(work)-1]
		work = work[:len(work)-1]

		var failed bool
		switch id.Kind {
		case KindCompound:
			task, err := p.domain.CompoundTask(id)
			if err != nil {
				return nil, err
			}
			m, ok, err := p.finder.FindMethod(task, current.WorldState, next)
			if err := p.absorb(&result, id, "method selection", err); err != nil {
				return nil, err
			}
			if !ok {
				p.logger.Debug("htn: no method", "task", p.name(id), "from", next)
				failed = true
				break
			}
			if m < next || m >= len(task.Methods) {
				return nil, fmt.Errorf("task %s: method finder returned %d outside [%d, %d)", p.name(id), m, next, len(task.Methods))
			}

			restores = append(restores, current.branch(id, m, work))

			method := &task.Methods[m]
			_, err = method.Effect.Apply(current.WorldState)
			if err := p.absorb(&result, id, fmt.Sprintf("method %d effect", m), err); err != nil {
				return nil, err
			}
			next = 0
			for i := len(method.Tasks) - 1; i >= 0; i-- {
				work = append(work, method.Tasks[i])
			}
			p.logger.Debug("htn: expand", "task", p.name(id), "method", m, "subtasks", len(method.Tasks), "depth", len(restores))

		case KindPrimitive:
			task, err := p.domain.PrimitiveTask(id)
			if err != nil {
				return nil, err
			}
			v, err := task.Precondition.Apply(current.WorldState)
			if err := p.absorb(&result, id, "precondition", err); err != nil {
				return nil, err
			}
			if !Truthy(v) {
				p.logger.Debug("htn: precondition failed", "task", p.name(id))
				failed = true
				break
			}
			_, err = task.Effect.Apply(current.WorldState)
			if err := p.absorb(&result, id, "effect", err); err != nil {
				return nil, err
			}
			current.Plan = append(current.Plan, id)
			p.logger.Debug("htn: apply", "task", p.name(id), "plan", len(current.Plan))

		default:
			return nil, fmt.Errorf("%w: %s", ErrWrongTaskKind, id)
		}

		if !failed {
			continue
		}
		if len(restores) == 0 {
			result.Exhausted = true
			p.logger.Debug("htn: dropped", "task", p.name(id))
			continue
		}
		current = restores[len(restores)-1]
		restores = restores[:len(restores)-1]
		result.Backtracks++
		next = current.NextMethod + 1
		work = append(current.Pending, current.ActiveTask)
		current.Pending = nil
		p.logger.Debug("htn: backtrack", "task", p.name(current.ActiveTask), "next", next, "depth", len(restores))
	}

	result.Plan = current.Plan
	if result.Plan == nil {
		result.Plan = Plan{}
	}
	result.State = current.WorldState
	return &result, nil
}

// absorb records recoverable script diagnostics and returns everything else.
func (p *Planner) absorb(result *Result, id TaskID, part string, err error) error {
	if err == nil {
		return nil
	}
	err = fmt.Errorf("task %s %s: %w", p.name(id), part, err)
	if !recoverable(err) {
		return err
	}
	p.logger.Warn("htn: unrecognized operation", "task", p.name(id), "part", part, "error", err)
	result.Warnings = append(result.Warnings, err)
	return nil
}

func (p *Planner) name(id TaskID) string {
	if name, ok := p.domain.names[id]; ok {
		return name
	}
	return id.String()
}

// ComputePlan plans root over domain, seeded from attrs, selecting methods
// with finder. attrs is not modified.
func ComputePlan(root TaskID, attrs *AttributeSet, domain *Domain, finder MethodFinder) (Plan, error) {
	result, err := NewPlanner(domain, finder).Plan(root, attrs.WorldState())
	if err != nil {
		return nil, err
	}
	return result.Plan, nil
}
