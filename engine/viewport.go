package engine

import (
	"github.com/witanlabs/gridcalc/formula"
	"github.com/witanlabs/gridcalc/internal"
)

// Viewport is a rendered window of the sheet.
type Viewport struct {
	Top     int
	Left    int
	Columns []string
	Rows    []int
	// Cells[i][j] is the value of (Left+j, Top+i) as displayed.
	Cells [][]string
}

// Window returns the cell texts for diffing.
func (v Viewport) Window() internal.Window {
	return internal.Window{Top: v.Top, Left: v.Left, Cells: v.Cells}
}

// Viewport renders height x width cells starting at (top, left), clipped to
// the grid.
func (s *Sheet) Viewport(top, left, height, width int) Viewport {
	top = min(max(top, 1), s.rows)
	left = min(max(left, 1), s.cols)
	height = max(min(height, s.rows-top+1), 0)
	width = max(min(width, s.cols-left+1), 0)

	v := Viewport{
		Top:     top,
		Left:    left,
		Columns: make([]string, width),
		Rows:    make([]int, height),
		Cells:   make([][]string, height),
	}
	for j := range width {
		v.Columns[j] = internal.ColToLetter(left + j)
	}
	for i := range height {
		v.Rows[i] = top + i
		row := make([]string, width)
		for j := range width {
			row[j] = s.store.lookup(formula.Coord{Col: left + j, Row: top + i}).String()
		}
		v.Cells[i] = row
	}
	return v
}
