package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// ErrUsage marks errors caused by bad command-line arguments.
var ErrUsage = errors.New("usage")

// Command represents a command that can be executed.
type Command interface {
	// Name returns the command name.
	Name() string

	// Description returns a short description of the command.
	Description() string

	// Usage returns the usage string for the command.
	Usage() string

	// SetupFlags configures the flag.FlagSet for this command. The same
	// FlagSet is parsed before Execute is called.
	SetupFlags(fs *flag.FlagSet)

	// Execute runs the command with the arguments left after flag parsing.
	Execute(args []string, stdout, stderr io.Writer) error
}

// BaseCommand provides the name, description and usage of a command.
type BaseCommand struct {
	name        string
	description string
	usage       string
}

// NewBaseCommand creates a new BaseCommand.
func NewBaseCommand(name, description, usage string) *BaseCommand {
	return &BaseCommand{
		name:        name,
		description: description,
		usage:       usage,
	}
}

// Name returns the command name.
func (c *BaseCommand) Name() string {
	return c.name
}

// Description returns the command description.
func (c *BaseCommand) Description() string {
	return c.description
}

// Usage returns the command usage.
func (c *BaseCommand) Usage() string {
	return c.usage
}

// SetupFlags registers no flags.
func (c *BaseCommand) SetupFlags(fs *flag.FlagSet) {}

// usageErrorf reports bad arguments on stderr and returns an ErrUsage error.
func (c *BaseCommand) usageErrorf(stderr io.Writer, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(stderr, "%s\nUsage: %s\n", msg, c.usage)
	return fmt.Errorf("%w: %s", ErrUsage, msg)
}

// flagsSet returns the names of the flags explicitly given on fs.
func flagsSet(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	if fs == nil {
		return set
	}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}
