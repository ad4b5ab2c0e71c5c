package htn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constUtilities builds a compound task whose i-th method has utility
// values[i].
func constUtilities(values ...AttributeValue) *CompoundTask {
	task := new(CompoundTask)
	for _, v := range values {
		m := task.AddMethod(NewCompoundMethod())
		m.Utility.Add(Operation{Code: OpCopy, Left: RegisterID, Right: Const{Value: v}})
	}
	return task
}

func TestByCondition(t *testing.T) {
	t.Parallel()

	task := constUtilities(0, 1, 1)
	cases := []struct {
		start int
		want  int
		ok    bool
	}{
		{start: 0, want: 1, ok: true},
		{start: 1, want: 1, ok: true},
		{start: 2, want: 2, ok: true},
		{start: 3, ok: false},
		{start: 10, ok: false},
		{start: -1, want: 1, ok: true},
	}
	for _, tc := range cases {
		got, ok, err := ByCondition{}.FindMethod(task, NewWorldState(0), tc.start)
		require.NoError(t, err)
		assert.Equal(t, tc.ok, ok, "start %d", tc.start)
		if tc.ok {
			assert.Equal(t, tc.want, got, "start %d", tc.start)
		}
	}
}

func TestByCondition_StopsAtFirstMatch(t *testing.T) {
	t.Parallel()

	task := constUtilities(1, 1)
	task.Methods[1].Utility.Add(Operation{Code: OpCopy, Left: 1, Right: Const{Value: 9}})
	ws := NewWorldState(0, 0)
	got, ok, err := ByCondition{}.FindMethod(task, ws, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, got)
	assert.Equal(t, []AttributeValue{1, 0}, ws.Values(), "later utilities are not evaluated")
}

func TestByBestUtility(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		values []AttributeValue
		start  int
		want   int
		ok     bool
	}{
		{name: "greatest wins, earliest tie", values: []AttributeValue{3, 7, 7, 2}, want: 1, ok: true},
		{name: "start skips earlier methods", values: []AttributeValue{3, 7, 7, 2}, start: 2, want: 2, ok: true},
		{name: "last method alone", values: []AttributeValue{3, 7, 7, 2}, start: 3, want: 3, ok: true},
		{name: "exhausted range", values: []AttributeValue{3, 7, 7, 2}, start: 4, ok: false},
		{name: "all zero", values: []AttributeValue{0, 0}, want: 0, ok: true},
		{name: "all negative", values: []AttributeValue{-4, -1, -3}, want: 1, ok: true},
		{name: "negative infinity", values: []AttributeValue{AttributeValue(math.Inf(-1))}, want: 0, ok: true},
		{name: "no methods", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok, err := ByBestUtility{}.FindMethod(constUtilities(tc.values...), NewWorldState(0), tc.start)
			require.NoError(t, err)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestByBestUtility_NaN(t *testing.T) {
	t.Parallel()

	nan := AttributeValue(math.NaN())
	cases := []struct {
		name   string
		values []AttributeValue
		want   int
	}{
		{name: "leading NaN is replaced", values: []AttributeValue{nan, 5, nan}, want: 1},
		{name: "leading NaN loses to negative infinity", values: []AttributeValue{nan, AttributeValue(math.Inf(-1))}, want: 1},
		{name: "NaN never beats a number", values: []AttributeValue{1, nan}, want: 0},
		{name: "greatest after NaN", values: []AttributeValue{nan, 2, 9, 4}, want: 2},
		{name: "all NaN picks the first", values: []AttributeValue{nan, nan}, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok, err := ByBestUtility{}.FindMethod(constUtilities(tc.values...), NewWorldState(0), 0)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFinders_Warnings(t *testing.T) {
	t.Parallel()

	task := constUtilities(0, 1)
	task.Methods[0].Utility.Add(Operation{Code: OpCode(99)})

	for _, finder := range []MethodFinder{ByCondition{}, ByBestUtility{}} {
		got, ok, err := finder.FindMethod(task, NewWorldState(0), 0)
		require.ErrorIs(t, err, ErrUnrecognizedOperation)
		assert.True(t, recoverable(err))
		assert.True(t, ok)
		assert.Equal(t, 1, got)
	}

	task.Methods[1].Utility.Add(Operation{Code: OpCopy, Left: 0, Right: Attr{ID: 3}})
	for _, finder := range []MethodFinder{ByCondition{}, ByBestUtility{}} {
		_, ok, err := finder.FindMethod(task, NewWorldState(0), 0)
		require.ErrorIs(t, err, ErrAttributeOutOfRange)
		assert.False(t, ok)
	}
}

func TestFinderByName(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]MethodFinder{
		"condition":       ByCondition{},
		"by-condition":    ByCondition{},
		" Best-Utility ":  ByBestUtility{},
		"by-best-utility": ByBestUtility{},
		"utility":         ByBestUtility{},
	} {
		got, err := FinderByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := FinderByName("random")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"random"`)
}

func TestMethodFinderFunc(t *testing.T) {
	t.Parallel()

	var calls int
	f := MethodFinderFunc(func(task *CompoundTask, ws *WorldState, start int) (int, bool, error) {
		calls++
		return start, start < len(task.Methods), nil
	})
	got, ok, err := f.FindMethod(constUtilities(0, 0), nil, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, calls)
}
