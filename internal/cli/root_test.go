package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// resetHelpFlags clears the sticky help flag cobra leaves set on a command
// after a --help invocation, so later executions of the same shared command
// tree run normally instead of printing help.
func resetHelpFlags(c *cobra.Command) {
	if f := c.Flags().Lookup("help"); f != nil {
		f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range c.Commands() {
		resetHelpFlags(sub)
	}
}

func executeCommand(args ...string) (string, error) {
	resetHelpFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
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

func TestVersionCommand(t *testing.T) {
	SetVersion("test-version")
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "test-version") {
		t.Errorf("expected version output to contain 'test-version', got: %s", out)
	}
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedSubcommands := []string{
		"validate", "status", "summary", "mark", "reset",
		"events", "export", "db", "config", "version",
	}
	for _, sub := range expectedSubcommands {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing subcommand %q", sub)
		}
	}
}

func TestValidateSubcommands(t *testing.T) {
	subcmds := []string{"structure", "forcefield", "system"}
	for _, sub := range subcmds {
		out, err := executeCommand("validate", sub, "--help")
		if err != nil {
			t.Errorf("validate %s --help failed: %v", sub, err)
		}
		if out == "" {
			t.Errorf("validate %s --help produced no output", sub)
		}
	}
}

func TestDBSubcommands(t *testing.T) {
	subcmds := []string{"migrate", "reset", "stats"}
	for _, sub := range subcmds {
		out, err := executeCommand("db", sub, "--help")
		if err != nil {
			t.Errorf("db %s --help failed: %v", sub, err)
		}
		if out == "" {
			t.Errorf("db %s --help produced no output", sub)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeCommand("nonexistent")
	if err == nil {
		t.Error("expected error for unknown command, got nil")
	}
}

func TestStatusBlocksOnEmptyWorkdir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workdir := t.TempDir()

	out, err := executeCommand("status", "--workdir", workdir)
	if err == nil {
		t.Fatal("expected status to exit non-zero on an empty working directory")
	}
	if !strings.Contains(out, "WORKFLOW HALTED") {
		t.Errorf("expected halted banner, got: %s", out)
	}
	if _, serr := os.Stat(filepath.Join(workdir, "workflow_log.jsonl")); serr != nil {
		t.Errorf("expected event log in workdir: %v", serr)
	}
}

func TestValidateStructureCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workdir := t.TempDir()
	pdb := writeProteinPDB(t, workdir, "protein.pdb", 5)

	out, err := executeCommand("validate", "structure", pdb, "--workdir", workdir)
	if err != nil {
		t.Fatalf("validate structure: %v", err)
	}
	if !strings.Contains(out, "PASSED") {
		t.Errorf("expected PASSED verdict, got: %s", out)
	}

	// The gate should now accept the structure and report it.
	out, err = executeCommand("status", "--workdir", workdir)
	if err == nil {
		t.Fatal("expected gate to block without force-field validation")
	}
	if !strings.Contains(out, "[ok] Structure") {
		t.Errorf("expected confirmed structure line, got: %s", out)
	}
	if !strings.Contains(out, "Force field not validated") {
		t.Errorf("expected force-field gap, got: %s", out)
	}
}

func TestGatePassesAfterPrerequisites(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workdir := t.TempDir()
	pdb := writeProteinPDB(t, workdir, "protein.pdb", 5)

	if _, err := executeCommand("validate", "structure", pdb, "--workdir", workdir); err != nil {
		t.Fatalf("validate structure: %v", err)
	}
	if _, err := executeCommand("validate", "forcefield", pdb, "amber14-all", "--workdir", workdir); err != nil {
		t.Fatalf("validate forcefield: %v", err)
	}

	out, err := executeCommand("status", "--workdir", workdir)
	if err != nil {
		t.Fatalf("expected gate to pass, got error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "WORKFLOW READY") {
		t.Errorf("expected ready banner, got: %s", out)
	}
}

func TestStatusStageFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workdir := t.TempDir()
	pdb := writeProteinPDB(t, workdir, "protein.pdb", 5)
	if _, err := executeCommand("validate", "structure", pdb, "--workdir", workdir); err != nil {
		t.Fatalf("validate structure: %v", err)
	}
	defer statusCmd.Flags().Set("stage", "")

	out, err := executeCommand("status", "--stage", "structure", "--workdir", workdir)
	if err != nil {
		t.Fatalf("status --stage: %v", err)
	}
	if !strings.Contains(out, "Structure: validated (protein.pdb)") {
		t.Errorf("expected single-stage status line, got: %s", out)
	}

	// A vanished artifact demotes, and the demotion is persisted.
	if err := os.Remove(pdb); err != nil {
		t.Fatal(err)
	}
	out, err = executeCommand("status", "--stage", "structure", "--workdir", workdir)
	if err != nil {
		t.Fatalf("status --stage after delete: %v", err)
	}
	if !strings.Contains(out, "no longer exists") {
		t.Errorf("expected demotion message, got: %s", out)
	}

	if _, err := executeCommand("status", "--stage", "orbit", "--workdir", workdir); err == nil {
		t.Error("unknown stage name must error")
	}
}

func TestEventsCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workdir := t.TempDir()
	pdb := writeProteinPDB(t, workdir, "protein.pdb", 5)
	tiny := writeProteinPDB(t, workdir, "tiny.pdb", 1)
	defer eventsCmd.Flags().Set("errors", "false")
	defer eventsCmd.Flags().Set("recent", "10")

	if _, err := executeCommand("validate", "structure", pdb, "--workdir", workdir); err != nil {
		t.Fatalf("validate structure: %v", err)
	}
	// Undersized structure, recorded as a failed event.
	executeCommand("validate", "structure", tiny, "--workdir", workdir)

	out, err := executeCommand("events", "--workdir", workdir, "--recent", "0")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if !strings.Contains(out, "success") || !strings.Contains(out, "failed") {
		t.Errorf("expected both outcomes in the listing, got: %s", out)
	}

	out, err = executeCommand("events", "--errors", "--workdir", workdir)
	if err != nil {
		t.Fatalf("events --errors: %v", err)
	}
	if strings.Contains(out, "success") {
		t.Errorf("error filter leaked successful events: %s", out)
	}
	if !strings.Contains(out, "failed") {
		t.Errorf("expected failed events, got: %s", out)
	}

	eventsCmd.Flags().Set("errors", "false")
	out, err = executeCommand("events", "--recent", "1", "--workdir", workdir)
	if err != nil {
		t.Fatalf("events --recent: %v", err)
	}
	if got := strings.Count(out, "validation"); got != 1 {
		t.Errorf("expected a single recent event, got %d in: %s", got, out)
	}
}

func TestSummaryCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workdir := t.TempDir()

	out, err := executeCommand("summary", "--workdir", workdir)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, "NOT READY") {
		t.Errorf("expected not-ready summary, got: %s", out)
	}
}
