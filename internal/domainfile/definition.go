// Package domainfile is the declarative front end of the planner: a
// Definition names attributes, primitive tasks and compound tasks, with every
// script written one operation per line in the "<Kind> <left> <rhs>" form
// understood by htn.ParseOperation. Definitions are loaded from YAML and
// compiled into an htn.AttributeSet and htn.Domain by Build.
//
// The first attribute is the register (id 0), whatever its name.
package domainfile

import (
	"errors"
	"fmt"
)

// Attribute declares one world state attribute and its initial value.
type Attribute struct {
	Name  string  `yaml:"name" json:"name"`
	Value float32 `yaml:"value" json:"value"`
}

// Primitive declares a primitive task.
type Primitive struct {
	Name         string   `yaml:"name" json:"name"`
	Precondition []string `yaml:"precondition,omitempty" json:"precondition,omitempty"`
	Effect       []string `yaml:"effect,omitempty" json:"effect,omitempty"`
}

// Method declares one decomposition of a compound task. Tasks reference
// primitive or compound tasks by name.
type Method struct {
	Name    string   `yaml:"name,omitempty" json:"name,omitempty"`
	Tasks   []string `yaml:"tasks" json:"tasks"`
	Utility []string `yaml:"utility,omitempty" json:"utility,omitempty"`
	Effect  []string `yaml:"effect,omitempty" json:"effect,omitempty"`
}

// Compound declares a compound task. Method order is significant.
type Compound struct {
	Name    string   `yaml:"name" json:"name"`
	Methods []Method `yaml:"methods" json:"methods"`
}

// Definition is a complete planning problem.
type Definition struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Attributes  []Attribute `yaml:"attributes" json:"attributes"`
	Primitives  []Primitive `yaml:"primitives,omitempty" json:"primitives,omitempty"`
	Compounds   []Compound  `yaml:"compounds,omitempty" json:"compounds,omitempty"`

	// Root names the task planned by default.
	Root string `yaml:"root,omitempty" json:"root,omitempty"`
	// Goal is an optional expr-lang expression checked against the final
	// world state of a plan.
	Goal string `yaml:"goal,omitempty" json:"goal,omitempty"`
	// Strategy optionally names the method finder, see htn.FinderByName.
	Strategy string `yaml:"strategy,omitempty" json:"strategy,omitempty"`
}

// ErrInvalidDefinition wraps every structural problem reported by Validate.
var ErrInvalidDefinition = errors.New("domainfile: invalid definition")

// Validate checks what can be checked without compiling: required names,
// name uniqueness across attributes and across tasks, and references from
// methods and Root. Script text is checked by Build. All problems are
// reported together.
func (d *Definition) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidDefinition}, args...)...))
	}

	if len(d.Attributes) == 0 {
		fail("no attributes (the first attribute is the register)")
	}
	attrs := make(map[string]struct{}, len(d.Attributes))
	for i, a := range d.Attributes {
		if a.Name == "" {
			fail("attribute %d has no name", i)
			continue
		}
		if _, dup := attrs[a.Name]; dup {
			fail("duplicate attribute %q", a.Name)
		}
		attrs[a.Name] = struct{}{}
	}

	tasks := make(map[string]struct{}, len(d.Primitives)+len(d.Compounds))
	addTask := func(kind string, i int, name string) {
		if name == "" {
			fail("%s task %d has no name", kind, i)
			return
		}
		if _, dup := tasks[name]; dup {
			fail("duplicate task %q", name)
		}
		tasks[name] = struct{}{}
	}
	for i, p := range d.Primitives {
		addTask("primitive", i, p.Name)
	}
	for i, c := range d.Compounds {
		addTask("compound", i, c.Name)
	}

	for _, c := range d.Compounds {
		if len(c.Methods) == 0 {
			fail("compound task %q has no methods", c.Name)
		}
		for m, method := range c.Methods {
			for _, sub := range method.Tasks {
				if _, ok := tasks[sub]; !ok {
					fail("compound task %q method %s: unknown task %q", c.Name, methodLabel(m, method), sub)
				}
			}
		}
	}

	if d.Root != "" {
		if _, ok := tasks[d.Root]; !ok {
			fail("root %q is not a task", d.Root)
		}
	}
	return errors.Join(errs...)
}

func methodLabel(i int, m Method) string {
	if m.Name != "" {
		return fmt.Sprintf("%d (%s)", i, m.Name)
	}
	return fmt.Sprint(i)
}
