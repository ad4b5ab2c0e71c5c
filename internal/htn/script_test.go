package htn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript_ApplyReturnsRegister(t *testing.T) {
	t.Parallel()

	var s Script
	s.Add(Operation{Code: OpCopy, Left: 1, Right: Const{Value: 2}}).
		Add(Operation{Code: OpMultiply, Left: 1, Right: Const{Value: 3}}).
		Add(Operation{Code: OpMore, Left: 1, Right: Const{Value: 5}, Target: ToRegister})
	require.Equal(t, 3, s.Len())

	ws := NewWorldState(0, 0)
	v, err := s.Apply(ws)
	require.NoError(t, err)
	assert.Equal(t, AttributeValue(1), v)
	assert.Equal(t, []AttributeValue{1, 6}, ws.Values())
	assert.Equal(t, 2, ws.Len(), "scripts never grow the state")
}

func TestScript_EmptyReturnsCurrentRegister(t *testing.T) {
	t.Parallel()

	var s Script
	v, err := s.Apply(NewWorldState(7, 1))
	require.NoError(t, err)
	assert.Equal(t, AttributeValue(7), v)

	_, err = s.Apply(NewWorldState())
	require.ErrorIs(t, err, ErrAttributeOutOfRange)
}

func TestScript_Deterministic(t *testing.T) {
	t.Parallel()

	s := NewScript(
		Operation{Code: OpAdd, Left: 1, Right: Attr{ID: 2}},
		Operation{Code: OpSqrt, Left: 2, Right: Attr{ID: 1}},
		Operation{Code: OpDivide, Left: 2, Right: Const{Value: 3}, Target: ToRegister},
	)
	a, b := NewWorldState(0, 5, 4), NewWorldState(0, 5, 4)
	va, err := s.Apply(a)
	require.NoError(t, err)
	vb, err := s.Apply(b)
	require.NoError(t, err)
	assert.Equal(t, va, vb)
	assert.True(t, a.Equal(b))
	assert.Equal(t, AttributeValue(1), va)
}

func TestScript_NoShortCircuit(t *testing.T) {
	t.Parallel()

	// the first operation already leaves a false register, the rest must
	// still run
	s := NewScript(
		Operation{Code: OpCopy, Left: 0, Right: Const{Value: 0}},
		Operation{Code: OpCopy, Left: 1, Right: Const{Value: 9}},
	)
	ws := NewWorldState(1, 0)
	v, err := s.Apply(ws)
	require.NoError(t, err)
	assert.False(t, Truthy(v))
	assert.Equal(t, []AttributeValue{0, 9}, ws.Values())
}

func TestScript_UnrecognizedOperationContinues(t *testing.T) {
	t.Parallel()

	s := NewScript(
		Operation{Code: OpCode(77), Left: 1, Right: Const{Value: 1}},
		Operation{Code: OpCopy, Left: 0, Right: Const{Value: 4}},
	)
	ws := NewWorldState(0, 2)
	v, err := s.Apply(ws)
	require.ErrorIs(t, err, ErrUnrecognizedOperation)
	assert.True(t, recoverable(err))
	assert.Equal(t, AttributeValue(4), v)
	assert.Equal(t, []AttributeValue{4, 2}, ws.Values())
}

func TestScript_IndexErrorAborts(t *testing.T) {
	t.Parallel()

	s := NewScript(
		Operation{Code: OpCopy, Left: 1, Right: Const{Value: 3}},
		Operation{Code: OpAdd, Left: 1, Right: Attr{ID: 9}},
		Operation{Code: OpCopy, Left: 0, Right: Const{Value: 8}},
	)
	ws := NewWorldState(0, 0)
	_, err := s.Apply(ws)
	require.ErrorIs(t, err, ErrAttributeOutOfRange)
	assert.False(t, recoverable(err))
	assert.Equal(t, []AttributeValue{0, 3}, ws.Values(), "operations after the failure do not run")
}

func TestScript_AddOperation(t *testing.T) {
	t.Parallel()

	var s Script
	require.NoError(t, s.AddOperation(Kind{Code: OpCopy, Operand: OperandParam}, 0, 1))
	require.ErrorIs(t, s.AddOperation(Kind{Code: OpCopy, Operand: OperandParam}, 0, 0.5), ErrInvalidOperand)
	assert.Equal(t, []Operation{{Code: OpCopy, Left: 0, Right: Attr{ID: 1}}}, s.Operations())
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	assert.False(t, Truthy(0))
	assert.False(t, Truthy(AttributeValue(-0.0)))
	assert.True(t, Truthy(1))
	assert.True(t, Truthy(-0.5))
	assert.True(t, Truthy(AttributeValue(math.NaN())), "NaN compares not-equal to zero")
}
