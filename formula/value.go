package formula

import (
	"strconv"

	"github.com/witanlabs/gridcalc/internal"
)

// Value is the content of a cell: a 32-bit integer or the error marker.
type Value struct {
	Num int32
	Err bool
}

// Error is the error marker value.
var Error = Value{Err: true}

// Int returns a numeric value.
func Int(n int32) Value { return Value{Num: n} }

// String renders the value the way the grid displays it.
func (v Value) String() string {
	if v.Err {
		return "ERR"
	}
	return strconv.FormatInt(int64(v.Num), 10)
}

// Coord is a 1-based (column, row) cell position.
type Coord struct {
	Col int
	Row int
}

func (c Coord) String() string { return internal.FormatCell(c.Col, c.Row) }

// Rect is an inclusive rectangle with Min <= Max on both axes.
type Rect struct {
	Min Coord
	Max Coord
}

// NewRect builds a rectangle from two corners in any order.
func NewRect(a, b Coord) Rect {
	r := Rect{Min: a, Max: b}
	if r.Min.Col > r.Max.Col {
		r.Min.Col, r.Max.Col = r.Max.Col, r.Min.Col
	}
	if r.Min.Row > r.Max.Row {
		r.Min.Row, r.Max.Row = r.Max.Row, r.Min.Row
	}
	return r
}

// Contains reports whether c lies inside r.
func (r Rect) Contains(c Coord) bool {
	return c.Col >= r.Min.Col && c.Col <= r.Max.Col &&
		c.Row >= r.Min.Row && c.Row <= r.Max.Row
}

// Len is the number of cells in r.
func (r Rect) Len() int {
	return (r.Max.Col - r.Min.Col + 1) * (r.Max.Row - r.Min.Row + 1)
}

func (r Rect) String() string {
	return r.Min.String() + ":" + r.Max.String()
}
