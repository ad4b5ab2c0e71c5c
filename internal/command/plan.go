package command

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/joeycumines/go-htn/internal/config"
	"github.com/joeycumines/go-htn/internal/domainfile"
	"github.com/joeycumines/go-htn/internal/execute"
	"github.com/joeycumines/go-htn/internal/goal"
	"github.com/joeycumines/go-htn/internal/htn"
)

// Verdict errors returned by the plan command after its output is written.
var (
	ErrPlanExhausted   = errors.New("planning exhausted every method")
	ErrGoalNotMet      = errors.New("goal not satisfied")
	ErrExecutionFailed = errors.New("plan execution failed")
)

// PlanCommand computes a plan for a domain file.
type PlanCommand struct {
	*BaseCommand
	config *config.Config
	fs     *flag.FlagSet

	root     string
	strategy string
	goal     string
	execute  bool
	format   string
	maxSteps int
	logLevel string
	logFile  string
}

// NewPlanCommand creates a new plan command.
func NewPlanCommand(cfg *config.Config) *PlanCommand {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &PlanCommand{
		BaseCommand: NewBaseCommand(
			"plan",
			"Compute a plan for a domain file",
			"plan [options] <domain.yaml|domain.js>",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the plan command.
func (c *PlanCommand) SetupFlags(fs *flag.FlagSet) {
	c.fs = fs
	fs.StringVar(&c.root, "root", "", "Root task (default: the domain's root)")
	fs.StringVar(&c.strategy, "strategy", "", "Method selection strategy: condition or best-utility")
	fs.StringVar(&c.goal, "goal", "", "Goal expression checked against the final state, e.g. 'A == 1'")
	fs.BoolVar(&c.execute, "execute", false, "Replay the plan against the initial state")
	fs.StringVar(&c.format, "format", "", "Output format: text or json")
	fs.IntVar(&c.maxSteps, "max-steps", 0, "Planner step limit, 0 for none")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&c.logFile, "log-file", "", "Write JSON logs to this file (rotated)")
}

// planSettings is the outcome of merging flags, configuration and the
// domain file.
type planSettings struct {
	root     string
	strategy string
	goal     string
	execute  bool
	format   string
	maxSteps int

	goalCacheSize int
}

// settings resolves each option from, in order: the flag, the domain file
// (root, strategy, goal), and the configuration with its env overrides and
// schema defaults.
func (c *PlanCommand) settings(def *domainfile.Definition) (planSettings, error) {
	schema := config.DefaultSchema()
	set := flagsSet(c.fs)
	resolve := func(key string) string {
		return schema.ResolveCommand(c.config, c.Name(), key)
	}
	pick := func(flagName, flagValue, fromDomain, key string) string {
		if set[flagName] || flagValue != "" {
			return flagValue
		}
		if fromDomain != "" {
			return fromDomain
		}
		if key == "" {
			return ""
		}
		return resolve(key)
	}

	s := planSettings{
		root:     pick("root", c.root, def.Root, ""),
		strategy: pick("strategy", c.strategy, def.Strategy, config.KeyStrategy),
		goal:     pick("goal", c.goal, def.Goal, config.KeyGoal),
		format:   pick("format", c.format, "", config.KeyFormat),
		execute:  c.execute,
		maxSteps: c.maxSteps,
	}

	var err error
	if !set["execute"] {
		if s.execute, err = schema.ResolveBool(c.config, c.Name(), config.KeyExecute); err != nil {
			return s, err
		}
	}
	if !set["max-steps"] {
		if s.maxSteps, err = schema.ResolveInt(c.config, c.Name(), config.KeyMaxSteps); err != nil {
			return s, err
		}
	}
	if s.maxSteps < 0 {
		return s, fmt.Errorf("max-steps must not be negative: %d", s.maxSteps)
	}
	if s.goalCacheSize, err = schema.ResolveInt(c.config, c.Name(), config.KeyGoalCache); err != nil {
		return s, err
	}
	if s.goalCacheSize < 1 {
		return s, fmt.Errorf("option %s must be positive: %d", config.KeyGoalCache, s.goalCacheSize)
	}
	switch s.format {
	case "text", "json":
	default:
		return s, fmt.Errorf("unknown output format %q", s.format)
	}
	return s, nil
}

// planOutput is the JSON document written by -format json.
type planOutput struct {
	Run        string                        `json:"run"`
	Domain     string                        `json:"domain,omitempty"`
	Root       string                        `json:"root"`
	Strategy   string                        `json:"strategy"`
	Plan       []string                      `json:"plan"`
	Exhausted  bool                          `json:"exhausted"`
	Steps      int                           `json:"steps"`
	Backtracks int                           `json:"backtracks"`
	Warnings   []string                      `json:"warnings,omitempty"`
	State      map[string]htn.AttributeValue `json:"state"`
	Goal       *goalOutput                   `json:"goal,omitempty"`
	Execution  *executionOutput              `json:"execution,omitempty"`
}

type goalOutput struct {
	Expression string `json:"expression"`
	Satisfied  bool   `json:"satisfied"`
}

type executionOutput struct {
	Completed bool                          `json:"completed"`
	FailedAt  int                           `json:"failedAt"`
	Steps     []execute.Step                `json:"steps"`
	Warnings  []string                      `json:"warnings,omitempty"`
	State     map[string]htn.AttributeValue `json:"state"`
}

// Execute computes the plan.
func (c *PlanCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		return c.usageErrorf(stderr, "expected exactly one domain file, got %d arguments", len(args))
	}
	path := args[0]

	lc, err := resolveLogConfig(c.logFile, c.logLevel, c.config)
	if err != nil {
		return err
	}
	defer lc.Close()
	run := uuid.NewString()
	logger := lc.logger(stderr).With("run", run)

	def, err := loadDefinition(path, logger)
	if err != nil {
		return err
	}
	s, err := c.settings(def)
	if err != nil {
		return err
	}
	compiled, err := domainfile.Build(def)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	root, err := compiled.RootID(s.root)
	if err != nil {
		return err
	}
	finder, err := htn.FinderByName(s.strategy)
	if err != nil {
		return err
	}

	logger.Info("planning", "domain", path, "root", root.String(), "strategy", s.strategy)

	seed := compiled.Attributes.WorldState()
	planner := htn.NewPlanner(compiled.Domain, finder,
		htn.WithLogger(logger),
		htn.WithMaxSteps(s.maxSteps),
	)
	result, err := planner.Plan(root, seed)
	if err != nil {
		return err
	}

	out, err := c.describe(compiled, result)
	if err != nil {
		return err
	}
	out.Run = run
	out.Root, _ = compiled.Domain.TaskName(root)
	out.Strategy = s.strategy

	var verdict []error
	if result.Exhausted {
		verdict = append(verdict, ErrPlanExhausted)
	}

	if s.goal != "" {
		goal.SetCacheSize(s.goalCacheSize)
		g, err := goal.CompileFor(s.goal, compiled.Attributes)
		if err != nil {
			return err
		}
		ok, err := g.Satisfied(result.State)
		if err != nil {
			return err
		}
		out.Goal = &goalOutput{Expression: g.Expression(), Satisfied: ok}
		if !ok {
			verdict = append(verdict, fmt.Errorf("%w: %s", ErrGoalNotMet, g.Expression()))
		}
	}

	if s.execute {
		report, err := execute.Replay(compiled.Domain, result.Plan, seed, execute.WithLogger(logger))
		if err != nil {
			return err
		}
		state, err := compiled.Attributes.Snapshot(report.State)
		if err != nil {
			return err
		}
		out.Execution = &executionOutput{
			Completed: report.Completed,
			FailedAt:  report.FailedAt,
			Steps:     report.Steps,
			Warnings:  errorStrings(report.Warnings),
			State:     state,
		}
		if !report.Completed {
			verdict = append(verdict, fmt.Errorf("%w at step %d", ErrExecutionFailed, report.FailedAt))
		}
	}

	logger.Info("planned", "tasks", len(out.Plan), "exhausted", out.Exhausted, "steps", out.Steps, "backtracks", out.Backtracks)

	if s.format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		writePlanText(stdout, out)
	}

	return errors.Join(verdict...)
}

func (c *PlanCommand) describe(compiled *domainfile.Compiled, result *htn.Result) (*planOutput, error) {
	names, err := result.Plan.Names(compiled.Domain)
	if err != nil {
		return nil, err
	}
	state, err := compiled.Attributes.Snapshot(result.State)
	if err != nil {
		return nil, err
	}
	return &planOutput{
		Domain:     compiled.Definition.Name,
		Plan:       names,
		Exhausted:  result.Exhausted,
		Steps:      result.Steps,
		Backtracks: result.Backtracks,
		Warnings:   errorStrings(result.Warnings),
		State:      state,
	}, nil
}

func writePlanText(w io.Writer, out *planOutput) {
	for i, name := range out.Plan {
		_, _ = fmt.Fprintf(w, "task [%d] = %s\n", i, name)
	}
	if out.Exhausted {
		_, _ = fmt.Fprintf(w, "exhausted: %s could not be fully decomposed\n", out.Root)
	}
	for _, warning := range out.Warnings {
		_, _ = fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if out.Goal != nil {
		verdict := "satisfied"
		if !out.Goal.Satisfied {
			verdict = "not satisfied"
		}
		_, _ = fmt.Fprintf(w, "goal %q: %s\n", out.Goal.Expression, verdict)
	}
	if out.Execution != nil {
		if out.Execution.Completed {
			_, _ = fmt.Fprintf(w, "execution: completed %d step(s)\n", len(out.Execution.Steps))
		} else {
			step := out.Execution.Steps[out.Execution.FailedAt]
			_, _ = fmt.Fprintf(w, "execution: failed at step %d (%s)\n", step.Index, step.Task)
		}
	}
}

func errorStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
