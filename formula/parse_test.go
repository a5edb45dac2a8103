package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKinds(t *testing.T) {
	tests := []struct {
		input string
		want  Expr
	}{
		{"5", Literal{N: 5}},
		{"=-12", Literal{N: -12}},
		{"  +7 ", Literal{N: 7}},
		{"B3", Ref{Cell: Coord{Col: 2, Row: 3}}},
		{"=AA10", Ref{Cell: Coord{Col: 27, Row: 10}}},
		{"aa10", Ref{Cell: Coord{Col: 27, Row: 10}}},
		{"a1*b2", Binary{Op: '*', Left: Operand{IsRef: true, Cell: Coord{1, 1}}, Right: Operand{IsRef: true, Cell: Coord{2, 2}}}},
		{"SUM(a1:b2)", RangeCall{Func: FuncSum, Rect: Rect{Min: Coord{1, 1}, Max: Coord{2, 2}}}},
		{"A1+3", Binary{Op: '+', Left: Operand{IsRef: true, Cell: Coord{1, 1}}, Right: Operand{Lit: 3}}},
		{"-5 * B2", Binary{Op: '*', Left: Operand{Lit: -5}, Right: Operand{IsRef: true, Cell: Coord{2, 2}}}},
		{"A1--2", Binary{Op: '-', Left: Operand{IsRef: true, Cell: Coord{1, 1}}, Right: Operand{Lit: -2}}},
		{"10/0", Binary{Op: '/', Left: Operand{Lit: 10}, Right: Operand{Lit: 0}}},
		{"SUM(A1:A3)", RangeCall{Func: FuncSum, Rect: Rect{Min: Coord{1, 1}, Max: Coord{1, 3}}}},
		{"MAX( C3 : A1 )", RangeCall{Func: FuncMax, Rect: Rect{Min: Coord{1, 1}, Max: Coord{3, 3}}}},
		{"AVG(A3:C1)", RangeCall{Func: FuncAvg, Rect: Rect{Min: Coord{1, 1}, Max: Coord{3, 3}}}},
		{"STDEV(B2:B2)", RangeCall{Func: FuncStdev, Rect: Rect{Min: Coord{2, 2}, Max: Coord{2, 2}}}},
		{"SLEEP(2)", Sleep{Arg: Operand{Lit: 2}}},
		{"SLEEP(A1)", Sleep{Arg: Operand{IsRef: true, Cell: Coord{1, 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", ErrUnrecognized},
		{"=", ErrUnrecognized},
		{"abc", ErrUnrecognized},
		{"a-1", ErrUnrecognized},
		{"a01", ErrInvalidCell},
		{"1+2+3", ErrUnrecognized},
		{"A1*B1-C1", ErrUnrecognized},
		{"A1+", ErrUnrecognized},
		{"(5)", ErrUnrecognized},
		{"2147483648", ErrUnrecognized},
		{"SUM(A1)", ErrUnrecognized},
		{"FOO(A1:A2)", ErrUnrecognized},
		{"SUM(A1:B2:C3)", ErrUnrecognized},
		{"SLEEP(A1:A2)", ErrUnrecognized},
		{"SUM(SUM(A1:A2))", ErrUnrecognized},
		{"A0", ErrInvalidCell},
		{"A01", ErrInvalidCell},
		{"A1000", ErrInvalidCell},
		{"AAAA1", ErrInvalidCell},
		{"A1+B0", ErrInvalidCell},
		{"SUM(A1:A1000)", ErrInvalidRange},
		{"MIN(A0:B2)", ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	for _, text := range []string{"5", "-3", "C7", "A1+3", "-4*B2", "A1--2", "SUM(A1:C3)", "STDEV(B2:B2)", "SLEEP(A1)"} {
		expr, err := Parse(text)
		require.NoError(t, err, text)
		assert.Equal(t, text, expr.String())

		again, err := Parse(expr.String())
		require.NoError(t, err)
		assert.Equal(t, expr, again)
	}
}

func TestParseCanonicalizesLowercaseRefs(t *testing.T) {
	expr, err := Parse("=b3 + c4")
	require.NoError(t, err)
	assert.Equal(t, "B3+C4", expr.String())
}

func TestExprRefsAndRange(t *testing.T) {
	expr, err := Parse("A1*A1")
	require.NoError(t, err)
	assert.Equal(t, []Coord{{1, 1}}, expr.Refs())
	_, ok := expr.Range()
	assert.False(t, ok)

	expr, err = Parse("B1-C2")
	require.NoError(t, err)
	assert.Equal(t, []Coord{{2, 1}, {3, 2}}, expr.Refs())

	expr, err = Parse("SUM(B2:A1)")
	require.NoError(t, err)
	assert.Empty(t, expr.Refs())
	rect, ok := expr.Range()
	require.True(t, ok)
	assert.Equal(t, "A1:B2", rect.String())
	assert.Equal(t, 4, rect.Len())
	assert.True(t, rect.Contains(Coord{2, 1}))
	assert.False(t, rect.Contains(Coord{3, 1}))
}
