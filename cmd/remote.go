package cmd

import (
	"github.com/spf13/cobra"

	"github.com/witanlabs/gridcalc/client"
)

var jsonOutput bool

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Work with a sheet served by 'gridcalc serve'",
	Long: `Read and edit a sheet held by a running gridcalc server.

Commands:
  set   Commit one or more cell edits.
  get   Show a cell's value and formula.
  view  Print a window of the sheet.

Output:
  default  Human-friendly summaries
  --json   Raw JSON responses for automation

Examples:
  gridcalc remote set B1 "A1+3"
  gridcalc remote set A1=5 B1=A1+3
  gridcalc remote --json get B1
  gridcalc remote view --top-left C10`,
}

func init() {
	remoteCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output raw JSON instead of human-formatted summaries")
	rootCmd.AddCommand(remoteCmd)
}

func newRemoteClient() (*client.Client, error) {
	key, err := resolveAPIKey()
	if err != nil {
		return nil, err
	}
	url, err := resolveAPIURL()
	if err != nil {
		return nil, err
	}
	c := client.New(url, key)
	c.UserAgent = "gridcalc/" + Version
	return c, nil
}
