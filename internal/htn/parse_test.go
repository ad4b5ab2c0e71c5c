package htn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	t.Parallel()

	attrs := NewAttributeSet()
	for _, name := range []string{"Register", "A", "B"} {
		_, err := attrs.AddAttribute(name, 0)
		require.NoError(t, err)
	}

	cases := []struct {
		text string
		want Operation
	}{
		{"LessConstRegister B 5", Operation{Code: OpLess, Left: 2, Right: Const{Value: 5}, Target: ToRegister}},
		{"CopyParam Register A", Operation{Code: OpCopy, Left: 0, Right: Attr{ID: 1}}},
		{"SubtractConst A -1", Operation{Code: OpSubtract, Left: 1, Right: Const{Value: -1}}},
		{"  AddParam   1 2 ", Operation{Code: OpAdd, Left: 1, Right: Attr{ID: 2}}},
		{"DivideConstRegister A 0.25", Operation{Code: OpDivide, Left: 1, Right: Const{Value: 0.25}, Target: ToRegister}},
	}
	for _, tc := range cases {
		got, err := ParseOperation(tc.text, attrs)
		require.NoError(t, err, tc.text)
		assert.Equal(t, tc.want, got, tc.text)
	}

	for text, want := range map[string]error{
		"":                    ErrInvalidOperand,
		"AddConst A":          ErrInvalidOperand,
		"AddConst A 1 2":      ErrInvalidOperand,
		"Add A 1":             ErrUnrecognizedOperation,
		"AddConst Z 1":        ErrUnknownName,
		"AddParam A Z":        ErrUnknownName,
		"AddConst A one":      ErrInvalidOperand,
		"CopyParam A 300":     ErrUnknownName,
		"MultiplyConst 256 1": ErrUnknownName,
	} {
		_, err := ParseOperation(text, attrs)
		assert.ErrorIs(t, err, want, text)
	}

	_, err := ParseOperation("CopyParam 0 1", nil)
	require.NoError(t, err)
	_, err = ParseOperation("CopyParam Register 1", nil)
	require.ErrorIs(t, err, ErrUnknownName)
}

func TestParseScript(t *testing.T) {
	t.Parallel()

	attrs := NewAttributeSet()
	for _, name := range []string{"Register", "A"} {
		_, err := attrs.AddAttribute(name, 3)
		require.NoError(t, err)
	}

	s, err := ParseScript([]string{"MultiplyConst A 2", "MoreConstRegister A 5"}, attrs)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	ws := attrs.WorldState().Clone()
	v, err := s.Apply(ws)
	require.NoError(t, err)
	assert.Equal(t, AttributeValue(1), v)

	_, err = ParseScript([]string{"CopyConst A 1", "Bogus A 1"}, attrs)
	require.ErrorIs(t, err, ErrUnrecognizedOperation)
	assert.Contains(t, err.Error(), "operation 1")
}
