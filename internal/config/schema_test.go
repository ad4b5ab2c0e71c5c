package config

import (
	"strings"
	"testing"
)

func TestSchemaLookup(t *testing.T) {
	s := NewSchema()
	s.Register(ConfigOption{Key: "a", Type: TypeInt})
	s.Register(ConfigOption{Key: "b", Section: "plan"})

	if s.Lookup("", "a") == nil {
		t.Fatal("expected global option a")
	}
	if s.Lookup("plan", "b") == nil {
		t.Fatal("expected plan option b")
	}
	if s.Lookup("", "b") != nil || s.Lookup("other", "b") != nil {
		t.Fatal("section options are not global")
	}
	if !s.IsKnown("plan", "a") {
		t.Fatal("global options are known in every section")
	}
	if s.IsKnown("", "b") {
		t.Fatal("section option leaked into the global section")
	}
	if got := s.Sections(); len(got) != 1 || got[0] != "plan" {
		t.Fatalf("unexpected sections %v", got)
	}
}

func TestSchemaRegisterCopiesChoices(t *testing.T) {
	choices := []string{"x", "y"}
	s := NewSchema()
	s.Register(ConfigOption{Key: "c", Type: TypeChoice, Choices: choices})
	choices[0] = "z"

	if err := s.Lookup("", "c").Check("x"); err != nil {
		t.Fatalf("expected registered choices to be unaffected, got %v", err)
	}
}

func TestOptionCheck(t *testing.T) {
	cases := []struct {
		opt   ConfigOption
		value string
		ok    bool
	}{
		{ConfigOption{Type: TypeString}, "anything at all", true},
		{ConfigOption{}, "", true},
		{ConfigOption{Type: TypeBool}, "on", true},
		{ConfigOption{Type: TypeBool}, "maybe", false},
		{ConfigOption{Type: TypeInt}, "-3", true},
		{ConfigOption{Type: TypeInt}, "3.5", false},
		{ConfigOption{Type: TypeChoice, Choices: []string{"text", "json"}}, "json", true},
		{ConfigOption{Type: TypeChoice, Choices: []string{"text", "json"}}, "JSON", false},
		{ConfigOption{Type: "duration"}, "1s", false},
	}
	for _, tc := range cases {
		err := tc.opt.Check(tc.value)
		if (err == nil) != tc.ok {
			t.Errorf("Check(%q) on %s: got %v, want ok=%v", tc.value, tc.opt.Type, err, tc.ok)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.SetGlobalOption(KeyStrategy, "condition")
	cfg.SetGlobalOption(KeyFormat, "yaml")
	cfg.Commands["plan"] = map[string]string{KeyExecute: "true", KeyMaxSteps: "ten"}
	cfg.Commands["validate"] = map[string]string{KeyGoal: "A == 1"}

	issues := ValidateConfig(cfg, DefaultSchema())
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %v", issues)
	}
	joined := strings.Join(issues, "\n")
	for _, want := range []string{`global option "plan.format"`, `option "plan.max-steps" in [plan]`, `unknown option for command "validate": "goal"`} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected an issue containing %q, got:\n%s", want, joined)
		}
	}
}

func TestSchemaResolve(t *testing.T) {
	s := DefaultSchema()
	cfg := NewConfig()

	t.Setenv("HTN_STRATEGY", "")
	if got := s.Resolve(cfg, KeyMaxSteps); got != "0" {
		t.Fatalf("expected default, got %q", got)
	}

	cfg.SetGlobalOption(KeyFormat, "json")
	if got := s.Resolve(cfg, KeyFormat); got != "json" {
		t.Fatalf("expected config value, got %q", got)
	}

	cfg.SetGlobalOption(KeyStrategy, "condition")
	if got := s.Resolve(cfg, KeyStrategy); got != "" {
		t.Fatalf("expected a set env var to win even when empty, got %q", got)
	}

	t.Setenv("HTN_STRATEGY", "best-utility")
	if got := s.Resolve(cfg, KeyStrategy); got != "best-utility" {
		t.Fatalf("expected env override, got %q", got)
	}

	if got := s.Resolve(cfg, "unknown.key"); got != "" {
		t.Fatalf("expected empty for unknown key, got %q", got)
	}
}

func TestSchemaResolveCommand(t *testing.T) {
	s := DefaultSchema()
	cfg := NewConfig()

	if got := s.ResolveCommand(cfg, "plan", KeyExecute); got != "false" {
		t.Fatalf("expected section default, got %q", got)
	}

	cfg.SetGlobalOption(KeyFormat, "text")
	cfg.Commands["plan"] = map[string]string{KeyFormat: "json"}
	if got := s.ResolveCommand(cfg, "plan", KeyFormat); got != "json" {
		t.Fatalf("expected section value, got %q", got)
	}
	if got := s.ResolveCommand(cfg, "validate", KeyFormat); got != "text" {
		t.Fatalf("expected global value, got %q", got)
	}
	if got := s.ResolveCommand(nil, "plan", KeyFormat); got != "text" {
		t.Fatalf("expected default with no config, got %q", got)
	}
}

func TestSchemaResolveTyped(t *testing.T) {
	s := DefaultSchema()
	cfg := NewConfig()

	if n, err := s.ResolveInt(cfg, "plan", KeyGoalCache); err != nil || n != 256 {
		t.Fatalf("expected default cache size, got %d, %v", n, err)
	}
	cfg.SetGlobalOption(KeyMaxSteps, "7")
	cfg.Commands["plan"] = map[string]string{KeyExecute: "yes"}
	if n, err := s.ResolveInt(cfg, "plan", KeyMaxSteps); err != nil || n != 7 {
		t.Fatalf("expected global value, got %d, %v", n, err)
	}
	if b, err := s.ResolveBool(cfg, "plan", KeyExecute); err != nil || !b {
		t.Fatalf("expected section value, got %v, %v", b, err)
	}
	if b, err := s.ResolveBool(cfg, "plan", "unknown.flag"); err != nil || b {
		t.Fatalf("expected false for an unset option, got %v, %v", b, err)
	}

	cfg.SetGlobalOption(KeyLogMaxFiles, "many")
	if _, err := s.ResolveInt(cfg, "", KeyLogMaxFiles); err == nil || !strings.Contains(err.Error(), KeyLogMaxFiles) {
		t.Fatalf("expected an error naming the option, got %v", err)
	}
	cfg.Commands["plan"][KeyExecute] = "maybe"
	if _, err := s.ResolveBool(cfg, "plan", KeyExecute); err == nil {
		t.Fatal("expected an error for an invalid boolean")
	}
}

func TestFormatHelp(t *testing.T) {
	help := DefaultSchema().FormatHelp()

	for _, want := range []string{
		"Global Options:",
		"[plan] Options:",
		"one of: condition|best-utility",
		"env: HTN_LOG_LEVEL",
		"type: int",
		"default: best-utility",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("expected help to contain %q, got:\n%s", want, help)
		}
	}

	if got := NewSchema().FormatHelp(); got != "" {
		t.Errorf("expected empty help for empty schema, got %q", got)
	}
}
