package engine

import "github.com/witanlabs/gridcalc/formula"

// dims maps 1-based coordinates to dense indices, (row-1)*cols + (col-1).
type dims struct {
	rows, cols int
}

func (d dims) contains(c formula.Coord) bool {
	return c.Row >= 1 && c.Row <= d.rows && c.Col >= 1 && c.Col <= d.cols
}

func (d dims) index(c formula.Coord) int {
	return (c.Row-1)*d.cols + (c.Col - 1)
}

func (d dims) coord(i int) formula.Coord {
	return formula.Coord{Col: i%d.cols + 1, Row: i/d.cols + 1}
}

// store holds every cell's value densely and the parsed formula of every
// cell that has been assigned.
type store struct {
	dims
	values []formula.Value
	exprs  map[int]formula.Expr
}

func newStore(d dims) *store {
	return &store{
		dims:   d,
		values: make([]formula.Value, d.rows*d.cols),
		exprs:  make(map[int]formula.Expr),
	}
}

// lookup reads a value; cells outside the grid read as 0.
func (s *store) lookup(c formula.Coord) formula.Value {
	if !s.contains(c) {
		return formula.Value{}
	}
	return s.values[s.index(c)]
}
