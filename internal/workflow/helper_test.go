package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mdfactory/mdgate/internal/eventlog"
)

// newTestEngine builds an engine over a fresh temp workdir with default
// config.
func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	log, err := eventlog.Open(dir)
	if err != nil {
		t.Fatalf("open event log: %v", err)
	}
	return NewEngine(dir, nil, log), dir
}

func atomLine(serial int, name, res, chain string, seq int) string {
	return fmt.Sprintf("ATOM  %5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f  1.00  0.00",
		serial, name, res, chain, seq, 0.0, 0.0, 0.0)
}

// writeProteinPDB writes n ALA residues with N/CA/C backbone atoms.
func writeProteinPDB(t *testing.T, dir, name string, n int) string {
	t.Helper()
	var lines []string
	serial := 1
	for i := 1; i <= n; i++ {
		for _, atom := range []string{"N", "CA", "C"} {
			lines = append(lines, atomLine(serial, atom, "ALA", "A", i))
			serial++
		}
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// writeSystemPDB writes a solvated system with the given composition.
func writeSystemPDB(t *testing.T, dir, name string, protein, water, ions int) string {
	t.Helper()
	var lines []string
	serial := 1
	for i := 0; i < protein; i++ {
		lines = append(lines, atomLine(serial, "CA", "ALA", "A", i/3+1))
		serial++
	}
	for i := 0; i < water; i++ {
		lines = append(lines, atomLine(serial, "O", "HOH", "W", i+1))
		serial++
	}
	for i := 0; i < ions; i++ {
		lines = append(lines, atomLine(serial, "NA", "NA", "I", i+1))
		serial++
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
