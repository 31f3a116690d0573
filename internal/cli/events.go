package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mdfactory/mdgate/internal/eventlog"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the run's event history",
	RunE: func(cmd *cobra.Command, args []string) error {
		workdir, _ := cmd.Flags().GetString("workdir")
		path := filepath.Join(workdir, eventlog.LogFileName)
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No events recorded.")
			return nil
		}

		log, err := eventlog.Open(workdir)
		if err != nil {
			return err
		}

		var events []eventlog.Event
		errorsOnly, _ := cmd.Flags().GetBool("errors")
		recent, _ := cmd.Flags().GetInt("recent")
		switch {
		case errorsOnly:
			events = log.Errors()
		case recent > 0:
			events = log.Recent(recent)
		default:
			events = log.Events()
		}

		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching events.")
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-24s %-16s %-12s %-8s %s\n", "TIMESTAMP", "TYPE", "STAGE", "STATUS", "MESSAGE")
		fmt.Fprintf(w, "%-24s %-16s %-12s %-8s %s\n",
			strings.Repeat("-", 24),
			strings.Repeat("-", 16),
			strings.Repeat("-", 12),
			strings.Repeat("-", 8),
			strings.Repeat("-", 7))
		for _, e := range events {
			msg := e.Message
			if i := strings.IndexByte(msg, '\n'); i >= 0 {
				msg = msg[:i] + " ..."
			}
			if len(msg) > 80 {
				msg = msg[:77] + "..."
			}
			fmt.Fprintf(w, "%-24s %-16s %-12s %-8s %s\n",
				e.Timestamp.Format("2006-01-02T15:04:05.000"), e.EventType, e.Stage, e.Status, msg)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().Int("recent", 10, "Show only the N most recent events (0 for all)")
	eventsCmd.Flags().Bool("errors", false, "Show only failed events")
}
