package workflow

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateFileName is the persisted workflow state file kept under the working
// directory alongside the event log.
const StateFileName = "workflow_state.json"

// Store persists the workflow state snapshot between invocations so a run
// survives process restarts.
type Store struct {
	path string
}

// NewStore creates a store rooted at workdir.
func NewStore(workdir string) *Store {
	return &Store{path: filepath.Join(workdir, StateFileName)}
}

// Load reads the persisted snapshot. A missing file returns nil: the run
// has no saved state yet.
func (s *Store) Load() (*StateSnapshot, error) {
	var snap StateSnapshot
	if err := readJSON(s.path, &snap); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load workflow state: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot atomically.
func (s *Store) Save(snap StateSnapshot) error {
	if err := writeJSON(s.path, &snap); err != nil {
		return fmt.Errorf("save workflow state: %w", err)
	}
	return nil
}
