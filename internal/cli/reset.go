package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all validation state for the run",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		eng.Reset()
		if err := store.Save(eng.Snapshot()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "all validation state reset")
		return nil
	},
}
