package command

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/joeycumines/go-htn/internal/domainfile"
	"github.com/joeycumines/go-htn/internal/goal"
)

// ValidateCommand checks domain files without planning.
type ValidateCommand struct {
	*BaseCommand
	quiet bool
}

// NewValidateCommand creates a new validate command.
func NewValidateCommand() *ValidateCommand {
	return &ValidateCommand{
		BaseCommand: NewBaseCommand(
			"validate",
			"Check domain files for errors",
			"validate [options] <domain>...",
		),
	}
}

// SetupFlags configures the flags for the validate command.
func (c *ValidateCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.quiet, "q", false, "Only report problems")
}

// Execute loads, compiles and validates every file, reporting each one.
func (c *ValidateCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return c.usageErrorf(stderr, "expected at least one domain file")
	}

	var failed []error
	for _, path := range args {
		compiled, err := validateFile(path, stderr)
		if err != nil {
			failed = append(failed, err)
			_, _ = fmt.Fprintf(stdout, "%s: invalid\n", path)
			for _, problem := range problemsOf(err) {
				_, _ = fmt.Fprintf(stdout, "  - %s\n", problem)
			}
			continue
		}
		if !c.quiet {
			_, _ = fmt.Fprintf(stdout, "%s: ok (%d attributes, %d primitive, %d compound tasks)\n",
				path, compiled.Attributes.Len(), compiled.Domain.PrimitiveCount(), compiled.Domain.CompoundCount())
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d domain file(s) invalid", len(failed), len(args))
	}
	return nil
}

func validateFile(path string, stderr io.Writer) (*domainfile.Compiled, error) {
	lc := logConfig{}
	def, err := loadDefinition(path, lc.logger(stderr))
	if err != nil {
		return nil, err
	}
	compiled, err := domainfile.Build(def)
	if err != nil {
		return nil, err
	}
	if def.Goal != "" {
		if _, err := goal.CompileFor(def.Goal, compiled.Attributes); err != nil {
			return nil, err
		}
	}
	return compiled, nil
}

// problemsOf flattens joined errors into one line each.
func problemsOf(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, problemsOf(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
