package htn

import "errors"

var (
	// ErrAttributeOutOfRange is returned when an AttributeID does not address
	// an existing attribute of a WorldState.
	ErrAttributeOutOfRange = errors.New("htn: attribute id out of range")

	// ErrTooManyAttributes is returned when a WorldState cannot grow because
	// every AttributeID is in use.
	ErrTooManyAttributes = errors.New("htn: too many attributes")

	// ErrDuplicateName is returned when an attribute or task name is
	// registered twice.
	ErrDuplicateName = errors.New("htn: duplicate name")

	// ErrUnknownName is returned when a name lookup fails.
	ErrUnknownName = errors.New("htn: unknown name")

	// ErrTaskOutOfRange is returned when a TaskID does not address a task of
	// the Domain.
	ErrTaskOutOfRange = errors.New("htn: task id out of range")

	// ErrWrongTaskKind is returned when a primitive id is used where a
	// compound id is required, or vice versa.
	ErrWrongTaskKind = errors.New("htn: wrong task kind")

	// ErrUnrecognizedOperation is reported for operations whose code or
	// operand is outside the known set. It never silently degrades to a no-op.
	ErrUnrecognizedOperation = errors.New("htn: unrecognized operation")

	// ErrInvalidOperand is returned when an operation is authored with an
	// operand that cannot be interpreted for its kind.
	ErrInvalidOperand = errors.New("htn: invalid operand")

	// ErrStepLimit is returned when planning exceeds the configured step limit.
	ErrStepLimit = errors.New("htn: step limit exceeded")
)
