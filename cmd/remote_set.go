package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/witanlabs/gridcalc/client"
)

var setCmd = &cobra.Command{
	Use:   "set <cell> <formula> | set <cell>=<formula> ...",
	Short: "Commit cell edits on the server",
	Long: `Set one cell, or several in order, and report what was recalculated.

A formula is a number, a cell, one operator between two numbers or cells,
MIN/MAX/AVG/SUM/STDEV over a range, or SLEEP(n). A leading = is optional.

Exits with code 2 if any edit was rejected (invalid cell or range,
unrecognized formula, or a circular dependency). Edits after a rejected one
are still sent.

Examples:
  gridcalc remote set A1 5
  gridcalc remote set B1 "=A1*2"
  gridcalc remote set A1=5 B1=A1+3 C1=SUM(A1:B1)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSet,
}

func init() {
	remoteCmd.AddCommand(setCmd)
}

type cellEdit struct {
	Cell    string
	Formula string
}

// parseEdits accepts either "<cell> <formula>" or a list of "<cell>=<formula>".
func parseEdits(args []string) ([]cellEdit, error) {
	if len(args) == 2 && !strings.Contains(args[0], "=") {
		return []cellEdit{{Cell: strings.TrimSpace(args[0]), Formula: args[1]}}, nil
	}
	edits := make([]cellEdit, 0, len(args))
	for _, arg := range args {
		cell, formula, ok := strings.Cut(arg, "=")
		cell = strings.TrimSpace(cell)
		if !ok {
			return nil, fmt.Errorf("invalid edit %q: expected cell=formula", arg)
		}
		if cell == "" {
			return nil, fmt.Errorf("invalid edit %q: empty cell", arg)
		}
		if strings.TrimSpace(formula) == "" {
			return nil, fmt.Errorf("invalid edit %q: empty formula", arg)
		}
		edits = append(edits, cellEdit{Cell: cell, Formula: formula})
	}
	return edits, nil
}

func runSet(cmd *cobra.Command, args []string) error {
	edits, err := parseEdits(args)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	c, err := newRemoteClient()
	if err != nil {
		return err
	}

	results := make([]*client.SetCellResponse, 0, len(edits))
	rejected := 0
	for _, e := range edits {
		resp, err := c.SetCell(e.Cell, e.Formula)
		if err != nil {
			return err
		}
		results = append(results, resp)
		if !resp.Committed() {
			rejected++
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		var v any = results
		if len(results) == 1 {
			v = results[0]
		}
		if err := jsonPrint(out, v); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if !r.Committed() {
				fmt.Fprintf(out, "%s: %s\n", r.Cell, r.Status)
				continue
			}
			fmt.Fprintf(out, "%s = %s (%s), %d cell", r.Cell, r.Value, r.Status, len(r.Recalculated))
			if len(r.Recalculated) != 1 {
				fmt.Fprint(out, "s")
			}
			fmt.Fprintln(out, " recalculated.")
		}
	}

	if rejected > 0 {
		return &ExitError{Code: 2}
	}
	return nil
}
