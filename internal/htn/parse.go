package htn

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseOperation parses the textual form "<Kind> <left> <rhs>" used by domain
// files, e.g. "LessConstRegister B 5" or "CopyParam Register A".
//
// left, and rhs for Param kinds, may be attribute names resolved through
// attrs or numeric ids. For Const kinds rhs must be a number. attrs may be
// nil when only numeric ids are used.
func ParseOperation(text string, attrs *AttributeSet) (Operation, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return Operation{}, fmt.Errorf("%w: %q: want \"<kind> <left> <rhs>\"", ErrInvalidOperand, text)
	}
	kind, err := ParseKind(fields[0])
	if err != nil {
		return Operation{}, err
	}
	left, err := resolveAttribute(fields[1], attrs)
	if err != nil {
		return Operation{}, fmt.Errorf("%q left: %w", text, err)
	}
	var rhs AttributeValue
	switch kind.Operand {
	case OperandParam:
		id, err := resolveAttribute(fields[2], attrs)
		if err != nil {
			return Operation{}, fmt.Errorf("%q rhs: %w", text, err)
		}
		rhs = AttributeValue(id)
	default:
		f, err := strconv.ParseFloat(fields[2], 32)
		if err != nil {
			return Operation{}, fmt.Errorf("%w: %q rhs: %v", ErrInvalidOperand, text, err)
		}
		rhs = AttributeValue(f)
	}
	return NewOperation(kind, left, rhs)
}

// ParseScript parses one operation per entry.
func ParseScript(lines []string, attrs *AttributeSet) (Script, error) {
	var s Script
	for i, line := range lines {
		op, err := ParseOperation(line, attrs)
		if err != nil {
			return Script{}, fmt.Errorf("operation %d: %w", i, err)
		}
		s.Add(op)
	}
	return s, nil
}

func resolveAttribute(ref string, attrs *AttributeSet) (AttributeID, error) {
	if n, err := strconv.ParseUint(ref, 10, 8); err == nil {
		return AttributeID(n), nil
	}
	if attrs == nil {
		return 0, fmt.Errorf("%w: attribute %q", ErrUnknownName, ref)
	}
	return attrs.AttributeID(ref)
}
