package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// StructureParams tunes the structure validator. Zero values fall back to
// the defaults below.
type StructureParams struct {
	MinAtoms int
}

// DefaultMinAtoms is the smallest ATOM/HETATM record count accepted as a
// real structure.
const DefaultMinAtoms = 10

var backboneAtoms = []string{"N", "CA", "C"}

// Structure validates a PDB structure file for simulation readiness: the
// file exists, carries enough atom records, and protein residues include
// backbone atoms. A missing backbone is reported as a warning-class
// incomplete_structure outcome rather than a hard failure.
func Structure(path string, p StructureParams) Report {
	minAtoms := p.MinAtoms
	if minAtoms <= 0 {
		minAtoms = DefaultMinAtoms
	}

	if _, err := os.Stat(path); err != nil {
		return fail(OutcomeNotFound, fmt.Sprintf("structure file not found: %s", filepath.Base(path)))
	}

	records, err := scanAtomRecords(path)
	if err != nil {
		return fail(OutcomeMalformedInput, fmt.Sprintf("error reading PDB file: %v", err))
	}
	if len(records) < minAtoms {
		return fail(OutcomeMalformedInput,
			fmt.Sprintf("PDB has insufficient atoms: %d ATOM/HETATM records (minimum %d)", len(records), minAtoms))
	}

	residues := map[string]bool{}
	chains := map[string]bool{}
	aaResidues := map[string]bool{}
	foundBackbone := map[string]bool{}
	for _, r := range records {
		if r.Chain != "" {
			chains[r.Chain] = true
		}
		if r.ResName != "" && r.ResSeq != "" {
			key := r.Chain + "_" + r.ResSeq + "_" + r.ResName
			residues[key] = true
			if standardAminoAcids[r.ResName] {
				aaResidues[key] = true
			}
		}
		for _, b := range backboneAtoms {
			if r.AtomName == b {
				foundBackbone[b] = true
			}
		}
	}

	var missing []string
	for _, b := range backboneAtoms {
		if !foundBackbone[b] {
			missing = append(missing, b)
		}
	}
	if len(missing) == len(backboneAtoms) && len(aaResidues) > 0 {
		sort.Strings(missing)
		return warn(OutcomeIncompleteStructure,
			fmt.Sprintf("no backbone atoms (%s) found among %d amino acid residues",
				strings.Join(missing, ", "), len(aaResidues)))
	}

	details := map[string]string{
		"atoms":       strconv.Itoa(len(records)),
		"residues":    strconv.Itoa(len(residues)),
		"chains":      strconv.Itoa(len(chains)),
		"aa_residues": strconv.Itoa(len(aaResidues)),
	}
	msg := fmt.Sprintf("structure validated: %s (%d atoms, %d residues, %d chain(s), %d amino acid residues)",
		filepath.Base(path), len(records), len(residues), len(chains), len(aaResidues))
	return pass(msg, details)
}
