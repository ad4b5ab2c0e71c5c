package htn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomain_Registry(t *testing.T) {
	t.Parallel()

	d := NewDomain()
	_, err := d.CreatePrimitiveTask("walk")
	require.NoError(t, err)
	_, err = d.CreateCompoundTask("travel")
	require.NoError(t, err)
	_, err = d.CreatePrimitiveTask("ride")
	require.NoError(t, err)

	_, err = d.CreateCompoundTask("walk")
	require.ErrorIs(t, err, ErrDuplicateName)
	_, err = d.CreatePrimitiveTask("travel")
	require.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 2, d.PrimitiveCount())
	assert.Equal(t, 1, d.CompoundCount())
	assert.Equal(t, 3, d.TaskCount())
	assert.Equal(t, []string{"walk", "ride", "travel"}, d.Names())

	// registering a compound task does not shift primitive ids
	id, err := d.TaskID("ride")
	require.NoError(t, err)
	assert.Equal(t, PrimitiveID(1), id)
	id, err = d.TaskID("travel")
	require.NoError(t, err)
	assert.Equal(t, CompoundID(0), id)

	name, err := d.TaskName(PrimitiveID(0))
	require.NoError(t, err)
	assert.Equal(t, "walk", name)
	_, err = d.TaskName(CompoundID(4))
	require.ErrorIs(t, err, ErrTaskOutOfRange)
	_, err = d.TaskID("fly")
	require.ErrorIs(t, err, ErrUnknownName)

	assert.True(t, d.ContainsName("walk"))
	assert.False(t, d.ContainsName("fly"))
	assert.True(t, d.IsPrimitive(PrimitiveID(1)))
	assert.False(t, d.IsPrimitive(PrimitiveID(2)))
	assert.True(t, d.IsCompound(CompoundID(0)))
	assert.False(t, d.IsCompound(PrimitiveID(0)))
	assert.False(t, d.ContainsTask(TaskID{Kind: KindPrimitive, Index: -1}))
	assert.False(t, d.ContainsTask(TaskID{Kind: TaskKind(5)}))
}

func TestDomain_TaskAccessors(t *testing.T) {
	t.Parallel()

	d := NewDomain()
	prim, err := d.CreatePrimitiveTask("p")
	require.NoError(t, err)
	comp, err := d.CreateCompoundTask("c")
	require.NoError(t, err)

	got, err := d.PrimitiveTask(PrimitiveID(0))
	require.NoError(t, err)
	assert.Same(t, prim, got)
	gotC, err := d.CompoundTask(CompoundID(0))
	require.NoError(t, err)
	assert.Same(t, comp, gotC)

	_, err = d.PrimitiveTask(CompoundID(0))
	require.ErrorIs(t, err, ErrWrongTaskKind)
	_, err = d.CompoundTask(PrimitiveID(0))
	require.ErrorIs(t, err, ErrWrongTaskKind)
	_, err = d.PrimitiveTask(PrimitiveID(1))
	require.ErrorIs(t, err, ErrTaskOutOfRange)
	_, err = d.CompoundTask(CompoundID(1))
	require.ErrorIs(t, err, ErrTaskOutOfRange)
}

func TestDomain_Validate(t *testing.T) {
	t.Parallel()

	d := NewDomain()
	prim, err := d.CreatePrimitiveTask("p")
	require.NoError(t, err)
	prim.Precondition.Add(Operation{Code: OpCopy, Left: 0, Right: Const{Value: 1}})
	comp, err := d.CreateCompoundTask("c")
	require.NoError(t, err)
	m := comp.AddMethod(NewCompoundMethod(PrimitiveID(0), CompoundID(0)))
	// a unary op targeting the register never reads its left attribute
	m.Utility.Add(Operation{Code: OpSqrt, Left: 200, Right: Attr{ID: 1}, Target: ToRegister})
	require.NoError(t, d.Validate(2))

	m.Effect.Add(Operation{Code: OpAdd, Left: 1, Right: Attr{ID: 3}})
	comp.AddMethod(NewCompoundMethod(PrimitiveID(7)))
	prim.Effect.Add(Operation{Code: OpCopy, Left: 2, Right: Const{Value: 1}})

	err = d.Validate(2)
	require.ErrorIs(t, err, ErrAttributeOutOfRange)
	require.ErrorIs(t, err, ErrTaskOutOfRange)
	assert.Contains(t, err.Error(), "c method 0 effect")
	assert.Contains(t, err.Error(), "p effect")
	assert.Contains(t, err.Error(), "sub-task p7")
}

func TestTaskID_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "p3", PrimitiveID(3).String())
	assert.Equal(t, "c0", CompoundID(0).String())
	assert.Equal(t, "TaskKind(9):1", TaskID{Kind: 9, Index: 1}.String())
}

func TestPlan_Names(t *testing.T) {
	t.Parallel()

	d := NewDomain()
	_, err := d.CreatePrimitiveTask("a")
	require.NoError(t, err)
	_, err = d.CreatePrimitiveTask("b")
	require.NoError(t, err)

	names, err := Plan{PrimitiveID(1), PrimitiveID(0)}.Names(d)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names)

	_, err = Plan{PrimitiveID(2)}.Names(d)
	require.ErrorIs(t, err, ErrTaskOutOfRange)

	assert.Nil(t, Plan(nil).Clone())
}
