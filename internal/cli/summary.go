package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the validation state snapshot without re-checking artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Fprint(cmd.OutOrStdout(), eng.GetValidationSummary())
		return nil
	},
}
