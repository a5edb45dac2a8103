package internal

import (
	"fmt"
)

// Window is a rendered rectangle of the grid: Cells[i][j] is the text of
// the cell at row Top+i, column Left+j.
type Window struct {
	Top   int
	Left  int
	Cells [][]string
}

// Contains reports whether (col, row) lies inside the window.
func (w Window) Contains(col, row int) bool {
	i, j := row-w.Top, col-w.Left
	return i >= 0 && i < len(w.Cells) && j >= 0 && j < len(w.Cells[i])
}

// At returns the rendered text of (col, row), or "" outside the window.
func (w Window) At(col, row int) string {
	if !w.Contains(col, row) {
		return ""
	}
	return w.Cells[row-w.Top][col-w.Left]
}

// CellChange is one cell whose rendered text differs between two windows.
type CellChange struct {
	Cell   string `json:"cell"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// DiffViewports compares two windows cell-by-cell, keyed by absolute cell
// position, and returns every cell of after whose text differs from before.
// Cells of after that were outside before count as changed with an empty
// Before. Changes are ordered row-major.
func DiffViewports(before, after Window) []CellChange {
	var changes []CellChange
	for i, row := range after.Cells {
		r := after.Top + i
		for j, text := range row {
			c := after.Left + j
			if before.Contains(c, r) && before.At(c, r) == text {
				continue
			}
			changes = append(changes, CellChange{
				Cell:   FormatCell(c, r),
				Before: before.At(c, r),
				After:  text,
			})
		}
	}
	return changes
}

// FormatDiffSummary returns a human-readable diff summary string.
func FormatDiffSummary(changed, total int) string {
	if changed == 0 {
		return "diff: no changes"
	}
	if total <= 0 {
		return fmt.Sprintf("diff: %d cells changed", changed)
	}
	pct := float64(changed) / float64(total) * 100
	if pct < 0.1 {
		return fmt.Sprintf("diff: %d cells changed (<0.1%%)", changed)
	}
	return fmt.Sprintf("diff: %d cells changed (%.1f%%)", changed, pct)
}
