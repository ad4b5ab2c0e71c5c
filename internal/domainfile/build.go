package domainfile

import (
	"fmt"

	"github.com/joeycumines/go-htn/internal/htn"
)

// Compiled is a Definition turned into planner structures.
type Compiled struct {
	Definition *Definition
	Attributes *htn.AttributeSet
	Domain     *htn.Domain
}

// Build validates def and compiles it. Tasks are registered before any
// method is filled in, so methods may reference tasks declared later,
// including their own compound task.
func Build(def *Definition) (*Compiled, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	attrs := htn.NewAttributeSet()
	for _, a := range def.Attributes {
		if _, err := attrs.AddAttribute(a.Name, a.Value); err != nil {
			return nil, err
		}
	}

	domain := htn.NewDomain()
	primitives := make([]*htn.PrimitiveTask, len(def.Primitives))
	for i, p := range def.Primitives {
		task, err := domain.CreatePrimitiveTask(p.Name)
		if err != nil {
			return nil, err
		}
		primitives[i] = task
	}
	compounds := make([]*htn.CompoundTask, len(def.Compounds))
	for i, c := range def.Compounds {
		task, err := domain.CreateCompoundTask(c.Name)
		if err != nil {
			return nil, err
		}
		compounds[i] = task
	}

	script := func(owner, part string, lines []string) (htn.Script, error) {
		s, err := htn.ParseScript(lines, attrs)
		if err != nil {
			return htn.Script{}, fmt.Errorf("%s %s: %w", owner, part, err)
		}
		return s, nil
	}

	for i, p := range def.Primitives {
		var err error
		if primitives[i].Precondition, err = script(p.Name, "precondition", p.Precondition); err != nil {
			return nil, err
		}
		if primitives[i].Effect, err = script(p.Name, "effect", p.Effect); err != nil {
			return nil, err
		}
	}

	for i, c := range def.Compounds {
		for m, md := range c.Methods {
			owner := fmt.Sprintf("%s method %s", c.Name, methodLabel(m, md))
			tasks := make([]htn.TaskID, len(md.Tasks))
			for j, name := range md.Tasks {
				id, err := domain.TaskID(name)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", owner, err)
				}
				tasks[j] = id
			}
			method := htn.NewCompoundMethod(tasks...)
			var err error
			if method.Utility, err = script(owner, "utility", md.Utility); err != nil {
				return nil, err
			}
			if method.Effect, err = script(owner, "effect", md.Effect); err != nil {
				return nil, err
			}
			compounds[i].AddMethod(method)
		}
	}

	if err := domain.Validate(attrs.Len()); err != nil {
		return nil, err
	}
	return &Compiled{Definition: def, Attributes: attrs, Domain: domain}, nil
}

// RootID resolves name, falling back to the definition's Root.
func (c *Compiled) RootID(name string) (htn.TaskID, error) {
	if name == "" {
		name = c.Definition.Root
	}
	if name == "" {
		return htn.TaskID{}, fmt.Errorf("%w: no root task given", ErrInvalidDefinition)
	}
	return c.Domain.TaskID(name)
}
