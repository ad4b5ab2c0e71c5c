package htn

import (
	"fmt"
	"math"
)

// AttributeValue is the value of one world state attribute. Comparisons
// store 1 for true and 0 for false.
type AttributeValue = float32

// AttributeID indexes an attribute of a WorldState.
type AttributeID uint8

// RegisterID is the attribute used as the implicit accumulator of scripts.
const RegisterID AttributeID = 0

// MaxAttributes is the number of addressable attributes.
const MaxAttributes = math.MaxUint8 + 1

// WorldState is a flat, append-only vector of attribute values. Indices are
// stable once assigned. Accessing an index that was never appended is an
// error; the state never grows implicitly.
//
// A WorldState is not safe for concurrent use.
type WorldState struct {
	values []AttributeValue
}

// NewWorldState creates a WorldState holding a copy of seed.
func NewWorldState(seed ...AttributeValue) *WorldState {
	values := make([]AttributeValue, len(seed))
	copy(values, seed)
	return &WorldState{values: values}
}

// Len returns the number of attributes.
func (w *WorldState) Len() int {
	return len(w.values)
}

// Get returns the value of attribute id.
func (w *WorldState) Get(id AttributeID) (AttributeValue, error) {
	if int(id) >= len(w.values) {
		return 0, fmt.Errorf("%w: get %d (len %d)", ErrAttributeOutOfRange, id, len(w.values))
	}
	return w.values[id], nil
}

// Set stores value into attribute id.
func (w *WorldState) Set(id AttributeID, value AttributeValue) error {
	if int(id) >= len(w.values) {
		return fmt.Errorf("%w: set %d (len %d)", ErrAttributeOutOfRange, id, len(w.values))
	}
	w.values[id] = value
	return nil
}

// Append grows the state by one attribute and returns its id.
func (w *WorldState) Append(initial AttributeValue) (AttributeID, error) {
	if len(w.values) >= MaxAttributes {
		return 0, fmt.Errorf("%w: limit is %d", ErrTooManyAttributes, MaxAttributes)
	}
	w.values = append(w.values, initial)
	return AttributeID(len(w.values) - 1), nil
}

// Clone returns an independent deep copy.
func (w *WorldState) Clone() *WorldState {
	return NewWorldState(w.values...)
}

// Values returns a copy of all attribute values, in id order.
func (w *WorldState) Values() []AttributeValue {
	out := make([]AttributeValue, len(w.values))
	copy(out, w.values)
	return out
}

// Equal reports whether both states hold bit-identical values. NaN payloads
// compare by their bits, so a state is always Equal to its own Clone.
func (w *WorldState) Equal(other *WorldState) bool {
	if w == nil || other == nil {
		return w == other
	}
	if len(w.values) != len(other.values) {
		return false
	}
	for i, v := range w.values {
		if math.Float32bits(v) != math.Float32bits(other.values[i]) {
			return false
		}
	}
	return true
}
