package htn

import (
	"errors"
	"fmt"
)

// Domain owns every task of a planning problem together with the
// bidirectional name mapping. Tasks are created during authoring; once
// planning starts the Domain must not be modified, and it may then be read by
// any number of concurrent planning calls.
type Domain struct {
	primitives []*PrimitiveTask
	compounds  []*CompoundTask
	ids        map[string]TaskID
	names      map[TaskID]string
}

// NewDomain creates an empty Domain.
func NewDomain() *Domain {
	return &Domain{
		ids:   make(map[string]TaskID),
		names: make(map[TaskID]string),
	}
}

// CreatePrimitiveTask registers a new primitive task and returns it for
// population.
func (d *Domain) CreatePrimitiveTask(name string) (*PrimitiveTask, error) {
	id := PrimitiveID(len(d.primitives))
	if err := d.register(name, id); err != nil {
		return nil, err
	}
	task := new(PrimitiveTask)
	d.primitives = append(d.primitives, task)
	return task, nil
}

// CreateCompoundTask registers a new compound task and returns it for
// population.
func (d *Domain) CreateCompoundTask(name string) (*CompoundTask, error) {
	id := CompoundID(len(d.compounds))
	if err := d.register(name, id); err != nil {
		return nil, err
	}
	task := new(CompoundTask)
	d.compounds = append(d.compounds, task)
	return task, nil
}

func (d *Domain) register(name string, id TaskID) error {
	if _, exists := d.ids[name]; exists {
		return fmt.Errorf("%w: task %q", ErrDuplicateName, name)
	}
	d.ids[name] = id
	d.names[id] = name
	return nil
}

// IsPrimitive reports whether id addresses a primitive task of d.
func (d *Domain) IsPrimitive(id TaskID) bool {
	return id.IsPrimitive() && d.ContainsTask(id)
}

// IsCompound reports whether id addresses a compound task of d.
func (d *Domain) IsCompound(id TaskID) bool {
	return id.IsCompound() && d.ContainsTask(id)
}

// ContainsTask reports whether id addresses a task of d.
func (d *Domain) ContainsTask(id TaskID) bool {
	if id.Index < 0 {
		return false
	}
	switch id.Kind {
	case KindPrimitive:
		return id.Index < len(d.primitives)
	case KindCompound:
		return id.Index < len(d.compounds)
	default:
		return false
	}
}

// ContainsName reports whether a task is registered under name.
func (d *Domain) ContainsName(name string) bool {
	_, ok := d.ids[name]
	return ok
}

// TaskID returns the id registered for name.
func (d *Domain) TaskID(name string) (TaskID, error) {
	id, ok := d.ids[name]
	if !ok {
		return TaskID{}, fmt.Errorf("%w: task %q", ErrUnknownName, name)
	}
	return id, nil
}

// TaskName returns the name registered for id.
func (d *Domain) TaskName(id TaskID) (string, error) {
	name, ok := d.names[id]
	if !ok {
		return "", fmt.Errorf("%w: name of %s", ErrTaskOutOfRange, id)
	}
	return name, nil
}

// PrimitiveTask returns the primitive task addressed by id.
func (d *Domain) PrimitiveTask(id TaskID) (*PrimitiveTask, error) {
	if !id.IsPrimitive() {
		return nil, fmt.Errorf("%w: %s is not primitive", ErrWrongTaskKind, id)
	}
	if !d.ContainsTask(id) {
		return nil, fmt.Errorf("%w: %s (have %d primitive)", ErrTaskOutOfRange, id, len(d.primitives))
	}
	return d.primitives[id.Index], nil
}

// CompoundTask returns the compound task addressed by id.
func (d *Domain) CompoundTask(id TaskID) (*CompoundTask, error) {
	if !id.IsCompound() {
		return nil, fmt.Errorf("%w: %s is not compound", ErrWrongTaskKind, id)
	}
	if !d.ContainsTask(id) {
		return nil, fmt.Errorf("%w: %s (have %d compound)", ErrTaskOutOfRange, id, len(d.compounds))
	}
	return d.compounds[id.Index], nil
}

// PrimitiveCount returns the number of primitive tasks.
func (d *Domain) PrimitiveCount() int { return len(d.primitives) }

// CompoundCount returns the number of compound tasks.
func (d *Domain) CompoundCount() int { return len(d.compounds) }

// TaskCount returns the number of tasks of either kind.
func (d *Domain) TaskCount() int { return len(d.primitives) + len(d.compounds) }

// Names returns every task name, primitives first, each kind in id order.
func (d *Domain) Names() []string {
	out := make([]string, 0, d.TaskCount())
	for i := range d.primitives {
		out = append(out, d.names[PrimitiveID(i)])
	}
	for i := range d.compounds {
		out = append(out, d.names[CompoundID(i)])
	}
	return out
}

// Validate checks the domain against a world state of attributeCount
// attributes: every method sub-task must exist, and every attribute referenced
// by a script must be addressable. All problems are reported together.
func (d *Domain) Validate(attributeCount int) error {
	var errs []error
	checkScript := func(owner, part string, s *Script) {
		for _, id := range s.attributeIDs() {
			if int(id) >= attributeCount {
				errs = append(errs, fmt.Errorf("%s %s: %w: %d (have %d)", owner, part, ErrAttributeOutOfRange, id, attributeCount))
			}
		}
	}
	for i, task := range d.primitives {
		owner := d.names[PrimitiveID(i)]
		checkScript(owner, "precondition", &task.Precondition)
		checkScript(owner, "effect", &task.Effect)
	}
	for i, task := range d.compounds {
		owner := d.names[CompoundID(i)]
		for m := range task.Methods {
			method := &task.Methods[m]
			part := fmt.Sprintf("method %d", m)
			checkScript(owner, part+" utility", &method.Utility)
			checkScript(owner, part+" effect", &method.Effect)
			for _, sub := range method.Tasks {
				if !d.ContainsTask(sub) {
					errs = append(errs, fmt.Errorf("%s %s: %w: sub-task %s", owner, part, ErrTaskOutOfRange, sub))
				}
			}
		}
	}
	return errors.Join(errs...)
}
