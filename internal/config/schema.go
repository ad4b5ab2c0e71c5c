package config

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// OptionType represents the expected type of a configuration option value.
type OptionType string

const (
	// TypeString is a plain string value (the default for all config values).
	TypeString OptionType = "string"
	// TypeBool is a boolean value (true/false/yes/no/1/0/on/off).
	TypeBool OptionType = "bool"
	// TypeInt is an integer value.
	TypeInt OptionType = "int"
	// TypeChoice is one of the values listed in ConfigOption.Choices.
	TypeChoice OptionType = "choice"
)

// ConfigOption declares a single configuration option with its type, default,
// documentation, and environment variable override.
type ConfigOption struct {
	// Key is the option name as it appears in the config file (kebab-case).
	Key string
	// Type is the expected value type for validation.
	Type OptionType
	// Choices lists the accepted values of a TypeChoice option.
	Choices []string
	// Default is the default value as a string, or "" for no default.
	Default string
	// Description is a human-readable description of the option.
	Description string
	// Section is "" for global options, or a command/section name.
	Section string
	// EnvVar is the environment variable that overrides this option, or "".
	EnvVar string
}

// ConfigSchema declares the expected configuration options for the application.
// It is used for validation, documentation, typed getters, and env var mapping.
type ConfigSchema struct {
	options   []*ConfigOption
	byKey     map[string]*ConfigOption
	bySection map[string]map[string]*ConfigOption
}

// NewSchema creates a new empty ConfigSchema.
func NewSchema() *ConfigSchema {
	return &ConfigSchema{
		byKey:     make(map[string]*ConfigOption),
		bySection: make(map[string]map[string]*ConfigOption),
	}
}

// Register adds a ConfigOption to the schema. Duplicate keys within the same
// section are overwritten (last registration wins).
func (s *ConfigSchema) Register(opt ConfigOption) {
	ref := new(ConfigOption)
	*ref = opt
	ref.Choices = slices.Clone(opt.Choices)
	s.options = append(s.options, ref)
	if opt.Section == "" {
		s.byKey[opt.Key] = ref
	} else {
		if s.bySection[opt.Section] == nil {
			s.bySection[opt.Section] = make(map[string]*ConfigOption)
		}
		s.bySection[opt.Section][opt.Key] = ref
	}
}

// RegisterAll adds multiple ConfigOptions to the schema.
func (s *ConfigSchema) RegisterAll(opts []ConfigOption) {
	for _, opt := range opts {
		s.Register(opt)
	}
}

// Lookup returns the ConfigOption for a key in a given section ("" for global).
// Returns nil if the key is not registered.
func (s *ConfigSchema) Lookup(section, key string) *ConfigOption {
	if section == "" {
		return s.byKey[key]
	}
	if sec, ok := s.bySection[section]; ok {
		return sec[key]
	}
	return nil
}

// IsKnown returns true if the key is registered in the given section.
// Global keys are also known in every section, where they override the
// global value for that command.
func (s *ConfigSchema) IsKnown(section, key string) bool {
	if section == "" {
		return s.byKey[key] != nil
	}
	if sec, ok := s.bySection[section]; ok {
		if sec[key] != nil {
			return true
		}
	}
	return s.byKey[key] != nil
}

// GlobalOptions returns all registered global options (Section == "").
func (s *ConfigSchema) GlobalOptions() []ConfigOption {
	return s.SectionOptions("")
}

// SectionOptions returns all registered options for a specific section, in
// registration order.
func (s *ConfigSchema) SectionOptions(section string) []ConfigOption {
	var out []ConfigOption
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, *o)
		}
	}
	return out
}

// Sections returns a sorted list of all registered non-empty section names.
func (s *ConfigSchema) Sections() []string {
	out := make([]string, 0, len(s.bySection))
	for sec := range s.bySection {
		out = append(out, sec)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the effective value for a global config key by checking,
// in order: (1) the environment variable declared in the schema for this key,
// (2) the config value, (3) the schema default. Returns "" if the key is not
// found anywhere.
func (s *ConfigSchema) Resolve(c *Config, key string) string {
	return s.ResolveCommand(c, "", key)
}

// ResolveCommand is Resolve for an option read by a command: the [command]
// section value wins over the global value, and the section's own schema
// entry supplies the env var and default before the global entry does.
func (s *ConfigSchema) ResolveCommand(c *Config, command, key string) string {
	opt := s.Lookup(command, key)
	if opt == nil && command != "" {
		opt = s.Lookup("", key)
	}
	if opt != nil && opt.EnvVar != "" {
		if v, ok := os.LookupEnv(opt.EnvVar); ok {
			return v
		}
	}
	if c != nil {
		if v, ok := c.GetCommandOption(command, key); ok {
			return v
		}
	}
	if opt != nil {
		return opt.Default
	}
	return ""
}

// ValidateConfig checks a loaded Config against the schema and returns a list
// of human-readable issues (empty if the config is valid). Validation includes:
//   - Unknown global options (not in schema)
//   - Unknown command options (not in schema for that section, and not global)
//   - Type mismatches for options with declared types
func ValidateConfig(c *Config, s *ConfigSchema) []string {
	var issues []string

	for key, value := range c.Global {
		opt := s.Lookup("", key)
		if opt == nil {
			issues = append(issues, fmt.Sprintf("unknown global option: %q (value: %q)", key, value))
			continue
		}
		if err := opt.Check(value); err != nil {
			issues = append(issues, fmt.Sprintf("global option %q: %v", key, err))
		}
	}

	for section, opts := range c.Commands {
		for key, value := range opts {
			if !s.IsKnown(section, key) {
				issues = append(issues, fmt.Sprintf("unknown option for command %q: %q (value: %q)", section, key, value))
				continue
			}
			opt := s.Lookup(section, key)
			if opt == nil {
				opt = s.Lookup("", key)
			}
			if err := opt.Check(value); err != nil {
				issues = append(issues, fmt.Sprintf("option %q in [%s]: %v", key, section, err))
			}
		}
	}

	sort.Strings(issues)
	return issues
}

// Check reports whether value is acceptable for the option.
func (o *ConfigOption) Check(value string) error {
	switch o.Type {
	case TypeString, "":
		return nil
	case TypeBool:
		if _, err := parseBool(value); err != nil {
			return fmt.Errorf("expected bool, got %q", value)
		}
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("expected int, got %q", value)
		}
	case TypeChoice:
		if !slices.Contains(o.Choices, value) {
			return fmt.Errorf("expected one of %s, got %q", strings.Join(o.Choices, "|"), value)
		}
	default:
		return fmt.Errorf("unknown option type %q", o.Type)
	}
	return nil
}

// ResolveInt is ResolveCommand for a TypeInt option.
func (s *ConfigSchema) ResolveInt(c *Config, command, key string) (int, error) {
	v := s.ResolveCommand(c, command, key)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("option %s: invalid integer %q", key, v)
	}
	return n, nil
}

// ResolveBool is ResolveCommand for a TypeBool option. An unset option with
// no default is false.
func (s *ConfigSchema) ResolveBool(c *Config, command, key string) (bool, error) {
	v := s.ResolveCommand(c, command, key)
	if v == "" {
		return false, nil
	}
	b, err := parseBool(v)
	if err != nil {
		return false, fmt.Errorf("option %s: %w", key, err)
	}
	return b, nil
}

// FormatHelp returns a formatted, human-readable reference of all registered
// options in the schema, grouped by section.
func (s *ConfigSchema) FormatHelp() string {
	var b strings.Builder

	if globals := s.GlobalOptions(); len(globals) > 0 {
		b.WriteString("Global Options:\n")
		for _, o := range globals {
			writeOptionHelp(&b, o)
		}
	}

	for _, sec := range s.Sections() {
		opts := s.SectionOptions(sec)
		if len(opts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s] Options:\n", sec)
		for _, o := range opts {
			writeOptionHelp(&b, o)
		}
	}

	return b.String()
}

func writeOptionHelp(b *strings.Builder, o ConfigOption) {
	fmt.Fprintf(b, "  %-20s %s", o.Key, o.Description)
	parts := make([]string, 0, 3)
	switch o.Type {
	case "", TypeString:
	case TypeChoice:
		parts = append(parts, "one of: "+strings.Join(o.Choices, "|"))
	default:
		parts = append(parts, fmt.Sprintf("type: %s", o.Type))
	}
	if o.Default != "" {
		parts = append(parts, fmt.Sprintf("default: %s", o.Default))
	}
	if o.EnvVar != "" {
		parts = append(parts, fmt.Sprintf("env: %s", o.EnvVar))
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// Option keys read by the commands.
const (
	KeyLogLevel     = "log.level"
	KeyLogFile      = "log.file"
	KeyLogMaxSizeMB = "log.max-size-mb"
	KeyLogMaxFiles  = "log.max-files"
	KeyGoalCache    = "goal.cache-size"
	KeyStrategy     = "plan.strategy"
	KeyMaxSteps     = "plan.max-steps"
	KeyFormat       = "plan.format"
	KeyExecute      = "execute"
	KeyGoal         = "goal"
)

// DefaultSchema returns the schema declaring every known htn option. It is
// the single source of truth for option names, types, defaults, descriptions,
// and environment variable overrides.
func DefaultSchema() *ConfigSchema {
	s := NewSchema()
	s.RegisterAll(defaultGlobalOptions())
	s.RegisterAll(defaultCommandOptions())
	return s
}

func defaultGlobalOptions() []ConfigOption {
	return []ConfigOption{
		{Key: KeyLogLevel, Type: TypeChoice, Choices: []string{"debug", "info", "warn", "error"}, Default: "info", Description: "Log level", EnvVar: "HTN_LOG_LEVEL"},
		{Key: KeyLogFile, Type: TypeString, Description: "Log file path (JSON output, rotated)", EnvVar: "HTN_LOG_FILE"},
		{Key: KeyLogMaxSizeMB, Type: TypeInt, Default: "10", Description: "Max log file size in MB before rotation"},
		{Key: KeyLogMaxFiles, Type: TypeInt, Default: "5", Description: "Max number of rotated log backup files"},
		{Key: KeyGoalCache, Type: TypeInt, Default: "256", Description: "Compiled goal expressions kept in memory"},

		{Key: KeyStrategy, Type: TypeChoice, Choices: []string{"condition", "best-utility"}, Default: "best-utility", Description: "Method selection strategy", EnvVar: "HTN_STRATEGY"},
		{Key: KeyMaxSteps, Type: TypeInt, Default: "0", Description: "Planner step limit, 0 for none"},
		{Key: KeyFormat, Type: TypeChoice, Choices: []string{"text", "json"}, Default: "text", Description: "Plan output format"},
	}
}

func defaultCommandOptions() []ConfigOption {
	return []ConfigOption{
		{Key: KeyExecute, Section: "plan", Type: TypeBool, Default: "false", Description: "Replay the plan against the initial state"},
		{Key: KeyGoal, Section: "plan", Type: TypeString, Description: "Goal expression checked against the final state"},
	}
}
