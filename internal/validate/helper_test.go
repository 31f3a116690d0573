package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// atomLine renders one fixed-width ATOM record.
func atomLine(serial int, name, res, chain string, seq int) string {
	return fmt.Sprintf("ATOM  %5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f  1.00  0.00",
		serial, name, res, chain, seq, 0.0, 0.0, 0.0)
}

// proteinLines renders n residues of ALA with N/CA/C backbone atoms.
func proteinLines(n int) []string {
	var lines []string
	serial := 1
	for i := 1; i <= n; i++ {
		for _, name := range []string{"N", "CA", "C"} {
			lines = append(lines, atomLine(serial, name, "ALA", "A", i))
			serial++
		}
	}
	return lines
}

// writePDB writes lines to a .pdb file under dir and returns its path.
func writePDB(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
