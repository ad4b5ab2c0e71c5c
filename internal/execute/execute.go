// Package execute replays a plan against a world state as a behavior tree.
//
// Each plan step becomes a leaf that re-checks the primitive task's
// precondition and applies its effect; the leaves run under a go-behaviortree
// Sequence, so the first failing step stops the replay. Method effects chosen
// during decomposition are not replayed: only primitive tasks act on the
// world.
package execute

import (
	"errors"
	"fmt"
	"log/slog"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/joeycumines/go-htn/internal/htn"
)

// StepStatus describes the outcome of one plan step.
type StepStatus int

const (
	// StepPending means the step was not reached.
	StepPending StepStatus = iota
	// StepApplied means the precondition held and the effect was applied.
	StepApplied
	// StepFailed means the precondition did not hold.
	StepFailed
)

func (s StepStatus) String() string {
	switch s {
	case StepPending:
		return "pending"
	case StepApplied:
		return "applied"
	case StepFailed:
		return "failed"
	default:
		return fmt.Sprintf("StepStatus(%d)", int(s))
	}
}

// MarshalText renders the status name.
func (s StepStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Step is the replay record of one plan entry.
type Step struct {
	Index  int        `json:"index"`
	Task   string     `json:"task"`
	Status StepStatus `json:"status"`
}

// Report is the outcome of Replay.
type Report struct {
	Steps []Step
	// State is the world state after the last applied step.
	State *htn.WorldState
	// Completed is set when every step applied.
	Completed bool
	// FailedAt is the index of the failing step, or -1.
	FailedAt int
	// Warnings holds unrecognized operation diagnostics.
	Warnings []error
}

// Option configures Replay.
type Option func(*replayer)

// WithLogger sets the logger used for per-step debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *replayer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

type replayer struct {
	state  *htn.WorldState
	report *Report
	logger *slog.Logger
}

// Replay runs plan against a copy of seed. A failing precondition is not an
// error: it is reported through Report.Completed and Report.FailedAt. Errors
// are returned for unknown tasks and out of range attributes.
func Replay(domain *htn.Domain, plan htn.Plan, seed *htn.WorldState, opts ...Option) (*Report, error) {
	if seed == nil {
		seed = htn.NewWorldState()
	}
	r := &replayer{
		state:  seed.Clone(),
		report: &Report{FailedAt: -1},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	leaves := make([]bt.Node, len(plan))
	for i, id := range plan {
		name, err := domain.TaskName(id)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		task, err := domain.PrimitiveTask(id)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, name, err)
		}
		r.report.Steps = append(r.report.Steps, Step{Index: i, Task: name})
		leaves[i] = r.leaf(i, task)
	}

	status, err := bt.New(bt.Sequence, leaves...).Tick()
	if err != nil {
		return nil, err
	}
	r.report.Completed = status == bt.Success
	r.report.State = r.state
	return r.report, nil
}

func (r *replayer) leaf(index int, task *htn.PrimitiveTask) bt.Node {
	tick := func(children []bt.Node) (bt.Status, error) {
		step := &r.report.Steps[index]
		v, err := task.Precondition.Apply(r.state)
		if err := r.absorb(step, "precondition", err); err != nil {
			return bt.Failure, err
		}
		if !htn.Truthy(v) {
			step.Status = StepFailed
			r.report.FailedAt = index
			r.logger.Debug("execute: precondition failed", "step", index, "task", step.Task)
			return bt.Failure, nil
		}
		_, err = task.Effect.Apply(r.state)
		if err := r.absorb(step, "effect", err); err != nil {
			return bt.Failure, err
		}
		step.Status = StepApplied
		r.logger.Debug("execute: applied", "step", index, "task", step.Task)
		return bt.Success, nil
	}
	return func() (bt.Tick, []bt.Node) { return tick, nil }
}

func (r *replayer) absorb(step *Step, part string, err error) error {
	if err == nil {
		return nil
	}
	err = fmt.Errorf("step %d (%s) %s: %w", step.Index, step.Task, part, err)
	if !errors.Is(err, htn.ErrUnrecognizedOperation) || errors.Is(err, htn.ErrAttributeOutOfRange) {
		return err
	}
	r.logger.Warn("execute: unrecognized operation", "step", step.Index, "task", step.Task, "error", err)
	r.report.Warnings = append(r.report.Warnings, err)
	return nil
}
