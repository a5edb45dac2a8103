package repl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/witanlabs/gridcalc/engine"
)

// Render writes v as a fixed-width table: a header of column labels, then
// one line per row prefixed by its row number.
func Render(w io.Writer, v engine.Viewport) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("    ")
	for _, label := range v.Columns {
		fmt.Fprintf(bw, "%8s", label)
	}
	bw.WriteByte('\n')
	for i, row := range v.Cells {
		fmt.Fprintf(bw, "%3d ", v.Rows[i])
		for _, text := range row {
			fmt.Fprintf(bw, "%8s", text)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
