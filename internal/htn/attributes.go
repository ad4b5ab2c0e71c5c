package htn

import (
	"fmt"
)

// AttributeSet layers a name registry over a WorldState. It exists for domain
// authors and presentation; the planner itself only deals in AttributeIDs.
type AttributeSet struct {
	state *WorldState
	ids   map[string]AttributeID
	names []string
}

// NewAttributeSet creates an empty AttributeSet.
func NewAttributeSet() *AttributeSet {
	return &AttributeSet{
		state: NewWorldState(),
		ids:   make(map[string]AttributeID),
	}
}

// AddAttribute registers name with an initial value. Ids are assigned densely
// in registration order, so the first attribute added is the register.
func (s *AttributeSet) AddAttribute(name string, initial AttributeValue) (AttributeID, error) {
	if _, exists := s.ids[name]; exists {
		return 0, fmt.Errorf("%w: attribute %q", ErrDuplicateName, name)
	}
	id, err := s.state.Append(initial)
	if err != nil {
		return 0, fmt.Errorf("attribute %q: %w", name, err)
	}
	s.ids[name] = id
	s.names = append(s.names, name)
	return id, nil
}

// ContainsAttribute reports whether name is registered.
func (s *AttributeSet) ContainsAttribute(name string) bool {
	_, ok := s.ids[name]
	return ok
}

// AttributeID returns the id registered for name.
func (s *AttributeSet) AttributeID(name string) (AttributeID, error) {
	id, ok := s.ids[name]
	if !ok {
		return 0, fmt.Errorf("%w: attribute %q", ErrUnknownName, name)
	}
	return id, nil
}

// AttributeName returns the name registered for id.
func (s *AttributeSet) AttributeName(id AttributeID) (string, error) {
	if int(id) >= len(s.names) {
		return "", fmt.Errorf("%w: name of %d (len %d)", ErrAttributeOutOfRange, id, len(s.names))
	}
	return s.names[id], nil
}

// Value returns the current value of the named attribute.
func (s *AttributeSet) Value(name string) (AttributeValue, error) {
	id, err := s.AttributeID(name)
	if err != nil {
		return 0, err
	}
	return s.state.Get(id)
}

// SetValue stores value into the named attribute.
func (s *AttributeSet) SetValue(name string, value AttributeValue) error {
	id, err := s.AttributeID(name)
	if err != nil {
		return err
	}
	return s.state.Set(id, value)
}

// ValueByID returns the current value of attribute id.
func (s *AttributeSet) ValueByID(id AttributeID) (AttributeValue, error) {
	return s.state.Get(id)
}

// SetValueByID stores value into attribute id.
func (s *AttributeSet) SetValueByID(id AttributeID, value AttributeValue) error {
	return s.state.Set(id, value)
}

// Len returns the number of registered attributes.
func (s *AttributeSet) Len() int {
	return len(s.names)
}

// Names returns the registered names in id order.
func (s *AttributeSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Snapshot maps every attribute name to its value in ws, which must have been
// derived from this set's world state.
func (s *AttributeSet) Snapshot(ws *WorldState) (map[string]AttributeValue, error) {
	out := make(map[string]AttributeValue, len(s.names))
	for i, name := range s.names {
		v, err := ws.Get(AttributeID(i))
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// WorldState returns the backing state. Planning clones it; it is never
// mutated by a Planner.
func (s *AttributeSet) WorldState() *WorldState {
	return s.state
}
