package cli

import (
	"github.com/spf13/cobra"

	"github.com/mdfactory/mdgate/internal/workflow"
)

var markCmd = &cobra.Command{
	Use:   "mark <stage> <artifact>",
	Short: "Manually mark a stage as validated",
	Long: `mark promotes a stage without running its validator, for cases where
validity was established by other means. Stages: structure, forcefield,
system, simulation, analysis. File-backed stages still require the artifact
to exist.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := workflow.ParseStage(args[0])
		if err != nil {
			return err
		}

		eng, store, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		res := eng.MarkValidated(stage, args[1])
		if err := store.Save(eng.Snapshot()); err != nil {
			return err
		}
		return printResult(cmd, res)
	},
}

func init() {
	markCmd.Flags().String("format", "text", "Output format: text or json")
}
