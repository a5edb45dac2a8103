package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/witanlabs/gridcalc/formula"
)

func TestGraphEdgesBothWays(t *testing.T) {
	g := newGraph(dims{rows: 10, cols: 10})
	g.addEdge(1, 5)
	g.addEdge(2, 5)
	g.addEdge(1, 7)

	assert.Equal(t, []int{5, 7}, g.dependentsOf(1))
	assert.Equal(t, []int{1, 2}, g.precedentsOf(5))

	g.removeAllPrecedents(5)
	assert.Equal(t, []int{7}, g.dependentsOf(1))
	assert.Nil(t, g.dependentsOf(2))
	assert.Nil(t, g.precedentsOf(5))
}

func TestGraphRangeObservers(t *testing.T) {
	d := dims{rows: 10, cols: 10}
	g := newGraph(d)
	owner := d.index(formula.Coord{Col: 5, Row: 5})
	g.setRange(owner, formula.NewRect(formula.Coord{Col: 1, Row: 1}, formula.Coord{Col: 2, Row: 3}))

	assert.Equal(t, []int{owner}, g.rangeObservers(d.index(formula.Coord{Col: 2, Row: 3})))
	assert.Empty(t, g.rangeObservers(d.index(formula.Coord{Col: 3, Row: 1})))

	g.clearRange(owner)
	assert.Empty(t, g.rangeObservers(d.index(formula.Coord{Col: 1, Row: 1})))
}

func TestGraphWouldCycle(t *testing.T) {
	g := newGraph(dims{rows: 10, cols: 10})
	g.addEdge(0, 1)
	g.addEdge(1, 2)
	assert.False(t, g.wouldCycle(0))

	g.addEdge(2, 0)
	assert.True(t, g.wouldCycle(0))
	assert.True(t, g.wouldCycle(1))
}

func TestGraphRecalcOrder(t *testing.T) {
	g := newGraph(dims{rows: 10, cols: 10})
	// 0 -> 1 -> 3, 0 -> 2 -> 3, 3 -> 4
	g.addEdge(0, 1)
	g.addEdge(0, 2)
	g.addEdge(1, 3)
	g.addEdge(2, 3)
	g.addEdge(3, 4)

	order := g.recalcOrder(0)
	assert.Len(t, order, 5)
	assert.Equal(t, 0, order[0])
	pos := map[int]int{}
	for i, c := range order {
		pos[c] = i
	}
	assert.Less(t, pos[1], pos[3])
	assert.Less(t, pos[2], pos[3])
	assert.Less(t, pos[3], pos[4])

	assert.Equal(t, []int{4}, g.recalcOrder(4))
}

func TestDimsIndexRoundTrip(t *testing.T) {
	d := dims{rows: 7, cols: 13}
	for row := 1; row <= d.rows; row++ {
		for col := 1; col <= d.cols; col++ {
			c := formula.Coord{Col: col, Row: row}
			assert.Equal(t, c, d.coord(d.index(c)))
		}
	}
	assert.False(t, d.contains(formula.Coord{Col: 14, Row: 1}))
}
