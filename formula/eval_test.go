package formula

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type grid map[Coord]Value

func (g grid) lookup(c Coord) Value { return g[c] }

func eval(t *testing.T, text string, g grid) Value {
	t.Helper()
	expr, err := Parse(text)
	require.NoError(t, err)
	return Evaluate(expr, g.lookup, nil)
}

func TestEvaluateArithmetic(t *testing.T) {
	g := grid{{1, 1}: Int(7), {2, 1}: Int(-2), {3, 1}: Error}

	tests := []struct {
		text string
		want Value
	}{
		{"42", Int(42)},
		{"A1", Int(7)},
		{"Z9", Int(0)},
		{"A1+B1", Int(5)},
		{"A1-B1", Int(9)},
		{"A1*B1", Int(-14)},
		{"A1/B1", Int(-3)},
		{"-7/2", Int(-3)},
		{"A1/0", Error},
		{"C1+1", Error},
		{"1*C1", Error},
		{"2147483647+1", Error},
		{"-2147483648-1", Error},
		{"-2147483648/-1", Error},
		{"65536*65536", Error},
		{"-2147483648", Int(math.MinInt32)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, eval(t, tt.text, g))
		})
	}
}

func TestEvaluateAggregates(t *testing.T) {
	g := grid{
		{1, 1}: Int(1), {1, 2}: Int(2), {1, 3}: Int(3), {1, 4}: Int(4),
		{2, 1}: Int(-1), {2, 2}: Int(-2),
		{3, 1}: Int(math.MaxInt32), {3, 2}: Int(1),
	}

	tests := []struct {
		text string
		want Value
	}{
		{"SUM(A1:A4)", Int(10)},
		{"MIN(A1:B2)", Int(-2)},
		{"MAX(A1:B2)", Int(2)},
		{"AVG(A1:A4)", Int(3)},  // 2.5 rounds away from zero
		{"AVG(B1:B2)", Int(-2)}, // -1.5 rounds away from zero
		{"AVG(A1:A3)", Int(2)},
		{"AVG(A4:A4)", Int(4)},
		{"STDEV(A4:A4)", Int(0)},
		{"STDEV(A1:A4)", Int(1)}, // sqrt(1.25)
		{"SUM(C1:C2)", Error},
		{"AVG(C1:C2)", Error},
		{"MAX(C1:C2)", Int(math.MaxInt32)},
		{"SUM(D1:E5)", Int(0)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, eval(t, tt.text, g))
		})
	}
}

func TestEvaluateAggregateErrorMember(t *testing.T) {
	g := grid{{1, 1}: Int(1), {1, 2}: Error, {1, 3}: Int(3)}
	for _, fn := range []string{"SUM", "MIN", "MAX", "AVG", "STDEV"} {
		assert.Equal(t, Error, eval(t, fn+"(A1:A3)", g), fn)
	}
}

func TestEvaluateStdevPopulation(t *testing.T) {
	g := grid{}
	for i, v := range []int32{2, 4, 4, 4, 5, 5, 7, 9} {
		g[Coord{Col: 1, Row: i + 1}] = Int(v)
	}
	assert.Equal(t, Int(2), eval(t, "STDEV(A1:A8)", g))
	assert.Equal(t, Int(5), eval(t, "AVG(A1:A8)", g))
}

func TestEvaluateWholeSheetRangeDoesNotBuffer(t *testing.T) {
	ones := func(Coord) Value { return Int(1) }
	cells := int32(18278 * 999)

	for fn, want := range map[string]Value{
		"SUM": Int(cells), "MIN": Int(1), "MAX": Int(1), "AVG": Int(1), "STDEV": Int(0),
	} {
		expr, err := Parse(fn + "(A1:ZZZ999)")
		require.NoError(t, err)
		var got Value
		allocs := testing.AllocsPerRun(1, func() {
			got = Evaluate(expr, ones, nil)
		})
		assert.Equal(t, want, got, fn)
		assert.Less(t, allocs, float64(16), "%s allocated per cell", fn)
	}
}

func TestEvaluateSleep(t *testing.T) {
	var slept []time.Duration
	sleep := func(d time.Duration) { slept = append(slept, d) }
	g := grid{{1, 1}: Int(3), {2, 1}: Error, {3, 1}: Int(-4)}

	run := func(text string) Value {
		expr, err := Parse(text)
		require.NoError(t, err)
		return Evaluate(expr, g.lookup, sleep)
	}

	assert.Equal(t, Int(2), run("SLEEP(2)"))
	assert.Equal(t, Int(3), run("SLEEP(A1)"))
	assert.Equal(t, Int(-4), run("SLEEP(C1)"))
	assert.Equal(t, Int(0), run("SLEEP(0)"))
	assert.Equal(t, Error, run("SLEEP(B1)"))
	assert.Equal(t, []time.Duration{2 * time.Second, 3 * time.Second}, slept)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "ERR", Error.String())
	assert.Equal(t, "-15", Int(-15).String())
	assert.Equal(t, "B12", Coord{Col: 2, Row: 12}.String())
}
