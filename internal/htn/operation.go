package htn

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OpCode selects the arithmetic, comparison or copy performed by an
// Operation.
type OpCode uint8

const (
	OpAdd OpCode = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpLess
	OpLessEqual
	OpEqual
	OpMore
	OpMoreEqual
	OpSqrt
	OpCos
	OpSin
	OpCopy

	opCodeCount
)

var opCodeNames = [opCodeCount]string{
	OpAdd:       "Add",
	OpSubtract:  "Subtract",
	OpMultiply:  "Multiply",
	OpDivide:    "Divide",
	OpLess:      "Less",
	OpLessEqual: "LessEqual",
	OpEqual:     "Equal",
	OpMore:      "More",
	OpMoreEqual: "MoreEqual",
	OpSqrt:      "Sqrt",
	OpCos:       "Cos",
	OpSin:       "Sin",
	OpCopy:      "Copy",
}

// String returns the mnemonic of the code, e.g. "LessEqual".
func (c OpCode) String() string {
	if c < opCodeCount {
		return opCodeNames[c]
	}
	return "OpCode(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c is a known code.
func (c OpCode) Valid() bool {
	return c < opCodeCount
}

// Unary reports whether the code reads only its right-hand operand.
func (c OpCode) Unary() bool {
	switch c {
	case OpSqrt, OpCos, OpSin, OpCopy:
		return true
	default:
		return false
	}
}

// Operand is the right-hand side of an Operation: either Attr or Const.
// The set of implementations is closed.
type Operand interface {
	operand()
	String() string
}

// Attr reads the right-hand value from another attribute.
type Attr struct {
	ID AttributeID
}

// Const embeds the right-hand value in the operation.
type Const struct {
	Value AttributeValue
}

func (Attr) operand()  {}
func (Const) operand() {}

func (a Attr) String() string  { return "@" + strconv.Itoa(int(a.ID)) }
func (c Const) String() string { return strconv.FormatFloat(float64(c.Value), 'g', -1, 32) }

// Target selects the attribute written by an Operation.
type Target uint8

const (
	// ToLeft writes the result back into the left attribute.
	ToLeft Target = iota
	// ToRegister writes the result into RegisterID.
	ToRegister
)

// Operation is one bytecode instruction. Applying it performs exactly one
// WorldState.Set, on Left or on the register depending on Target.
//
// Binary codes compute Left <op> Right. Unary codes (Sqrt, Cos, Sin, Copy)
// compute f(Right); Left is then only the destination.
type Operation struct {
	Code   OpCode
	Left   AttributeID
	Right  Operand
	Target Target
}

// Kind returns the flat authoring tag of the operation.
func (op Operation) Kind() Kind {
	k := Kind{Code: op.Code, Target: op.Target}
	if _, ok := op.Right.(Attr); ok {
		k.Operand = OperandParam
	}
	return k
}

func (op Operation) String() string {
	right := "<nil>"
	if op.Right != nil {
		right = op.Right.String()
	}
	return fmt.Sprintf("%s %d %s", op.Kind(), op.Left, right)
}

// Apply executes the operation against ws.
//
// Arithmetic follows IEEE-754 float32 semantics: division by zero and the
// square root of a negative number yield Inf or NaN rather than errors.
// Comparisons write 1 or 0.
func (op Operation) Apply(ws *WorldState) error {
	if !op.Code.Valid() {
		return fmt.Errorf("%w: code %d", ErrUnrecognizedOperation, op.Code)
	}

	var dst AttributeID
	switch op.Target {
	case ToLeft:
		dst = op.Left
	case ToRegister:
		dst = RegisterID
	default:
		return fmt.Errorf("%w: target %d", ErrUnrecognizedOperation, op.Target)
	}

	var right AttributeValue
	switch r := op.Right.(type) {
	case Attr:
		v, err := ws.Get(r.ID)
		if err != nil {
			return err
		}
		right = v
	case Const:
		right = r.Value
	default:
		return fmt.Errorf("%w: operand %T", ErrUnrecognizedOperation, op.Right)
	}

	if op.Code.Unary() {
		return ws.Set(dst, unary(op.Code, right))
	}

	left, err := ws.Get(op.Left)
	if err != nil {
		return err
	}
	return ws.Set(dst, binary(op.Code, left, right))
}

func unary(code OpCode, v AttributeValue) AttributeValue {
	switch code {
	case OpSqrt:
		return AttributeValue(math.Sqrt(float64(v)))
	case OpCos:
		return AttributeValue(math.Cos(float64(v)))
	case OpSin:
		return AttributeValue(math.Sin(float64(v)))
	default: // OpCopy
		return v
	}
}

func binary(code OpCode, l, r AttributeValue) AttributeValue {
	switch code {
	case OpAdd:
		return l + r
	case OpSubtract:
		return l - r
	case OpMultiply:
		return l * r
	case OpDivide:
		return l / r
	case OpLess:
		return boolValue(l < r)
	case OpLessEqual:
		return boolValue(l <= r)
	case OpEqual:
		return boolValue(l == r)
	case OpMore:
		return boolValue(l > r)
	default: // OpMoreEqual
		return boolValue(l >= r)
	}
}

func boolValue(b bool) AttributeValue {
	if b {
		return 1
	}
	return 0
}

// OperandKind tells how the rhs of an authored operation is interpreted.
type OperandKind uint8

const (
	// OperandConst means the rhs is an embedded constant.
	OperandConst OperandKind = iota
	// OperandParam means the rhs is another attribute's id.
	OperandParam
)

// Kind is the flat authoring tag of an operation, the cross product of code,
// operand kind and target. Its textual form is the code mnemonic followed by
// "Param" or "Const" and an optional "Register" suffix, e.g.
// "MultiplyConstRegister" or "CopyParam".
type Kind struct {
	Code    OpCode
	Operand OperandKind
	Target  Target
}

func (k Kind) String() string {
	var b strings.Builder
	b.WriteString(k.Code.String())
	if k.Operand == OperandParam {
		b.WriteString("Param")
	} else {
		b.WriteString("Const")
	}
	if k.Target == ToRegister {
		b.WriteString("Register")
	}
	return b.String()
}

// ParseKind parses the textual form produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	var k Kind
	rest := s
	if trimmed, ok := strings.CutSuffix(rest, "Register"); ok {
		k.Target = ToRegister
		rest = trimmed
	}
	switch {
	case strings.HasSuffix(rest, "Param"):
		k.Operand = OperandParam
		rest = strings.TrimSuffix(rest, "Param")
	case strings.HasSuffix(rest, "Const"):
		k.Operand = OperandConst
		rest = strings.TrimSuffix(rest, "Const")
	default:
		return Kind{}, fmt.Errorf("%w: kind %q lacks Param or Const", ErrUnrecognizedOperation, s)
	}
	for code, name := range opCodeNames {
		if name == rest {
			k.Code = OpCode(code)
			return k, nil
		}
	}
	return Kind{}, fmt.Errorf("%w: kind %q", ErrUnrecognizedOperation, s)
}

// NewOperation builds an Operation from its flat authoring form. For Param
// kinds rhs must hold an integral attribute id.
func NewOperation(kind Kind, left AttributeID, rhs AttributeValue) (Operation, error) {
	if !kind.Code.Valid() {
		return Operation{}, fmt.Errorf("%w: code %d", ErrUnrecognizedOperation, kind.Code)
	}
	op := Operation{Code: kind.Code, Left: left, Target: kind.Target}
	switch kind.Operand {
	case OperandConst:
		op.Right = Const{Value: rhs}
	case OperandParam:
		if rhs < 0 || rhs >= MaxAttributes || rhs != AttributeValue(math.Trunc(float64(rhs))) {
			return Operation{}, fmt.Errorf("%w: %s rhs %v is not an attribute id", ErrInvalidOperand, kind, rhs)
		}
		op.Right = Attr{ID: AttributeID(rhs)}
	default:
		return Operation{}, fmt.Errorf("%w: operand kind %d", ErrUnrecognizedOperation, kind.Operand)
	}
	return op, nil
}
