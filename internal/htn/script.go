package htn

import (
	"errors"
	"fmt"
)

// Script is an ordered sequence of operations. Later operations observe the
// writes of earlier ones. The zero value is an empty script, whose result is
// whatever the register already holds.
type Script struct {
	ops []Operation
}

// NewScript creates a script from ops.
func NewScript(ops ...Operation) Script {
	return Script{ops: append([]Operation(nil), ops...)}
}

// Add appends op.
func (s *Script) Add(op Operation) *Script {
	s.ops = append(s.ops, op)
	return s
}

// AddOperation appends an operation given in its flat authoring form.
func (s *Script) AddOperation(kind Kind, left AttributeID, rhs AttributeValue) error {
	op, err := NewOperation(kind, left, rhs)
	if err != nil {
		return err
	}
	s.ops = append(s.ops, op)
	return nil
}

// Len returns the number of operations.
func (s *Script) Len() int {
	return len(s.ops)
}

// Operations returns a copy of the operations, in execution order.
func (s *Script) Operations() []Operation {
	return append([]Operation(nil), s.ops...)
}

// Apply runs every operation in order and returns the register value.
//
// There is no short circuit: a script used as a precondition still runs to
// the end. An index error aborts immediately. Unrecognized operations are
// skipped, the rest of the script still runs, and the returned error wraps
// ErrUnrecognizedOperation alongside the register value.
func (s *Script) Apply(ws *WorldState) (AttributeValue, error) {
	var unrecognized []error
	for i, op := range s.ops {
		if err := op.Apply(ws); err != nil {
			err = fmt.Errorf("operation %d (%s): %w", i, op, err)
			if errors.Is(err, ErrUnrecognizedOperation) {
				unrecognized = append(unrecognized, err)
				continue
			}
			return 0, err
		}
	}
	v, err := ws.Get(RegisterID)
	if err != nil {
		return 0, err
	}
	return v, errors.Join(unrecognized...)
}

// attributeIDs returns every attribute referenced by the script.
func (s *Script) attributeIDs() []AttributeID {
	var ids []AttributeID
	for _, op := range s.ops {
		if op.Target == ToRegister {
			ids = append(ids, RegisterID)
		}
		// unary register ops never touch Left
		if !op.Code.Unary() || op.Target == ToLeft {
			ids = append(ids, op.Left)
		}
		if a, ok := op.Right.(Attr); ok {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Truthy reports whether a script result passes as a condition: any value
// that compares not-equal to zero, NaN included.
func Truthy(v AttributeValue) bool {
	return v != 0
}

// recoverable reports whether err carries only unrecognized operation
// diagnostics, in which case the script result is still usable.
func recoverable(err error) bool {
	return errors.Is(err, ErrUnrecognizedOperation) && !errors.Is(err, ErrAttributeOutOfRange)
}
