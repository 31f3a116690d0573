package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export workflow state and full event history to one JSON document",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		out, _ := cmd.Flags().GetString("out")
		path, err := eng.Export(out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "", "Output path (default: <workdir>/workflow_events.json)")
}
