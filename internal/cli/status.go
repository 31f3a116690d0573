package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdfactory/mdgate/internal/workflow"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Run the validation gate: can the pipeline proceed to simulation?",
	Long: `status re-checks every prerequisite stage: previously validated artifacts
that vanished are demoted, and missing stages are auto-discovered from the
working directory. Exits non-zero when the gate blocks. With --stage, only
that stage's status is checked and reported.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if stageName, _ := cmd.Flags().GetString("stage"); stageName != "" {
			stage, err := workflow.ParseStage(stageName)
			if err != nil {
				return err
			}
			line := eng.StageStatus(stage)
			if err := store.Save(eng.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		}

		passed, report := eng.CheckWorkflowStatus()
		if err := store.Save(eng.Snapshot()); err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "json" {
			out := struct {
				Passed bool   `json:"passed"`
				Report string `json:"report"`
			}{passed, report}
			data, _ := json.MarshalIndent(out, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), report)
		}

		if !passed {
			return fmt.Errorf("validation gate blocked")
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().String("format", "text", "Output format: text or json")
	statusCmd.Flags().String("stage", "", "Check a single stage: structure, forcefield, system, simulation, analysis")
}
