package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdfactory/mdgate/internal/workflow"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate pipeline artifacts stage by stage",
}

var validateStructureCmd = &cobra.Command{
	Use:   "structure <pdb-file>",
	Short: "Validate a PDB structure for simulation readiness",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		res := eng.ValidateStructure(args[0])
		if err := store.Save(eng.Snapshot()); err != nil {
			return err
		}
		return printResult(cmd, res)
	},
}

var validateForceFieldCmd = &cobra.Command{
	Use:   "forcefield <pdb-file> <forcefield-name>",
	Short: "Validate force-field coverage of a structure",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		res := eng.ValidateForceFieldCoverage(args[0], args[1])
		if err := store.Save(eng.Snapshot()); err != nil {
			return err
		}
		return printResult(cmd, res)
	},
}

var validateSystemCmd = &cobra.Command{
	Use:   "system <system-file>",
	Short: "Validate a solvated system for simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		res := eng.ValidateSystemPreparation(args[0])
		if err := store.Save(eng.Snapshot()); err != nil {
			return err
		}
		return printResult(cmd, res)
	},
}

// printResult writes one validation result in the requested format.
func printResult(cmd *cobra.Command, res workflow.Result) error {
	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	verdict := "FAILED"
	switch {
	case res.Passed:
		verdict = "PASSED"
	case res.Warning:
		verdict = "WARNING"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] %s\n", verdict, res.Outcome, res.Message)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{validateStructureCmd, validateForceFieldCmd, validateSystemCmd} {
		c.Flags().String("format", "text", "Output format: text or json")
		validateCmd.AddCommand(c)
	}
}
