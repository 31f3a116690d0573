package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mdfactory/mdgate/internal/db"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the cross-run event index",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the event index schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openIndex()
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.Migrate(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the event index",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openIndex()
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "event index reset")
		return nil
	},
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats [run-id]",
	Short: "Show per-stage validation counts for a run (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openIndex()
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.Migrate(); err != nil {
			return err
		}

		var runID string
		if len(args) == 1 {
			runID = args[0]
		} else {
			runs, err := d.Runs()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			runID = runs[0]
		}

		stats, err := d.StageStats(runID)
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No validations recorded for run %s.\n", runID)
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "run %s\n", runID)
		fmt.Fprintf(w, "%-14s %-6s %-8s %s\n", "STAGE", "RUNS", "PASSED", "WARNINGS")
		fmt.Fprintf(w, "%-14s %-6s %-8s %s\n",
			strings.Repeat("-", 14), strings.Repeat("-", 6), strings.Repeat("-", 8), strings.Repeat("-", 8))
		for _, s := range stats {
			fmt.Fprintf(w, "%-14s %-6d %-8d %d\n", s.Stage, s.Runs, s.Passed, s.Warnings)
		}
		return nil
	},
}

func openIndex() (*db.DB, error) {
	path, err := db.DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return db.Open(path)
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbResetCmd)
	dbCmd.AddCommand(dbStatsCmd)
}
