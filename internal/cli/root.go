package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdfactory/mdgate/internal/config"
	"github.com/mdfactory/mdgate/internal/db"
	"github.com/mdfactory/mdgate/internal/eventlog"
	"github.com/mdfactory/mdgate/internal/workflow"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "mdgate",
	Short: "mdgate — validation gate for protein MD workflows",
	Long: `mdgate tracks which stages of a protein molecular-dynamics pipeline have
been validated and decides whether the pipeline may advance to simulation.

Each working directory is one run: validation state lives in
workflow_state.json, the audit trail in workflow_log.jsonl, and a cross-run
event index in ~/.mdgate/mdgate.db (SQLite).`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("workdir", ".", "Working directory holding run artifacts and state")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: <workdir>/mdgate.yaml, then ~/.mdgate/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(configCmd)
}

// newEngine assembles the engine for one invocation: effective config, the
// run's event log (with the SQLite index attached when available), and
// persisted state. The returned cleanup must be called before exit.
func newEngine(cmd *cobra.Command) (*workflow.Engine, *workflow.Store, func(), error) {
	workdir, _ := cmd.Flags().GetString("workdir")
	cfgPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.LoadDefault(workdir)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := eventlog.Open(workdir)
	if err != nil {
		return nil, nil, nil, err
	}

	// The index is best-effort: a broken ~/.mdgate must not block the run,
	// the JSONL log is the authoritative trail.
	cleanup := func() {}
	if dbPath, err := db.DefaultDBPath(); err == nil {
		if d, err := db.Open(dbPath); err == nil {
			if err := d.Migrate(); err == nil {
				log.AttachMirror(d)
				cleanup = func() { d.Close() }
			} else {
				d.Close()
			}
		}
	}

	store := workflow.NewStore(workdir)
	eng := workflow.NewEngine(workdir, cfg, log)
	snap, err := store.Load()
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	if snap != nil {
		eng.Restore(*snap)
	}
	return eng, store, cleanup, nil
}
