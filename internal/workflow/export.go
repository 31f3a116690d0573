package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mdfactory/mdgate/internal/eventlog"
)

// ExportDocument is the serialized snapshot of a run: workflow state plus
// the full event history. Exporting then reloading reproduces the same stage
// flags and artifact references as the live state at export time.
type ExportDocument struct {
	RunID   string           `json:"run_id"`
	State   StateSnapshot    `json:"workflow_state"`
	Events  []eventlog.Event `json:"events"`
	Summary eventlog.Summary `json:"summary"`
	LogFile string           `json:"log_file"`
}

// Export writes the run snapshot to path. An empty path defaults to
// workflow_events.json under the working directory. Returns the path
// written.
func (e *Engine) Export(path string) (string, error) {
	if path == "" {
		path = filepath.Join(e.workdir, "workflow_events.json")
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(e.workdir, path)
	}

	doc := ExportDocument{
		RunID:   e.log.RunID(),
		State:   e.Snapshot(),
		Events:  e.log.Events(),
		Summary: e.log.Summarize(),
		LogFile: e.log.Path(),
	}
	if err := writeJSON(path, &doc); err != nil {
		return "", fmt.Errorf("export events: %w", err)
	}
	return path, nil
}

// LoadExport reads a snapshot document back.
func LoadExport(path string) (*ExportDocument, error) {
	var doc ExportDocument
	if err := readJSON(path, &doc); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("export %s not found", path)
		}
		return nil, err
	}
	return &doc, nil
}
