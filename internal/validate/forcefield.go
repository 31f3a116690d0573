package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ForceFieldParams tunes the coverage validator. Empty slices fall back to
// the defaults below.
type ForceFieldParams struct {
	Known        []string
	NamePatterns []string
}

// DefaultKnownForceFields are the force-field definition files shipped with
// the simulation engine.
var DefaultKnownForceFields = []string{
	"amber14-all.xml",
	"amber99sb.xml",
	"amber99sbildn.xml",
	"charmm36.xml",
	"amoeba2013.xml",
}

// DefaultNamePatterns match force-field families whose variants are accepted
// even when not in the known list.
var DefaultNamePatterns = []string{"amber", "charmm"}

// knownHeteroResidues are caps, nucleotides, and glycans commonly present in
// prepared structures that most force fields parameterize.
var knownHeteroResidues = map[string]bool{
	"ACE": true, "NME": true, "NH2": true, "GDP": true, "GTP": true,
	"ATP": true, "ADP": true, "NAG": true, "MAN": true,
}

// ForceFieldCoverage validates that the named force field plausibly covers
// every residue type observed in the structure. An unrecognized force-field
// name and residues outside the standard/solvent/heteroatom vocabulary are
// both warning-class outcomes: the gate decides whether they block.
func ForceFieldCoverage(path, forcefield string, p ForceFieldParams) Report {
	known := p.Known
	if len(known) == 0 {
		known = DefaultKnownForceFields
	}
	patterns := p.NamePatterns
	if len(patterns) == 0 {
		patterns = DefaultNamePatterns
	}

	if _, err := os.Stat(path); err != nil {
		return fail(OutcomeNotFound, fmt.Sprintf("PDB file not found for force field validation: %s", filepath.Base(path)))
	}

	name := forcefield
	if !strings.HasSuffix(name, ".xml") {
		name += ".xml"
	}
	recognized := false
	for _, k := range known {
		if name == k {
			recognized = true
			break
		}
	}
	if !recognized {
		lower := strings.ToLower(name)
		for _, pat := range patterns {
			if strings.Contains(lower, pat) {
				recognized = true
				break
			}
		}
	}
	if !recognized {
		return warn(OutcomeUnknownForceField,
			fmt.Sprintf("force field %q may not be available (known: %s)", forcefield, strings.Join(known, ", ")))
	}

	records, err := scanAtomRecords(path)
	if err != nil {
		return fail(OutcomeMalformedInput, fmt.Sprintf("error reading PDB file: %v", err))
	}

	observed := map[string]bool{}
	for _, r := range records {
		if r.ResName != "" {
			observed[r.ResName] = true
		}
	}

	var unknown []string
	for res := range observed {
		if standardAminoAcids[res] || waterResidues[res] || ionResidues[res] || knownHeteroResidues[res] {
			continue
		}
		unknown = append(unknown, res)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return warn(OutcomeIncompleteCoverage,
			fmt.Sprintf("force field %s may not cover residue types: %s (remove non-standard residues or add parameters)",
				forcefield, strings.Join(unknown, ", ")))
	}

	details := map[string]string{
		"forcefield":    forcefield,
		"residue_types": strconv.Itoa(len(observed)),
	}
	msg := fmt.Sprintf("force field validated: %s (%d residue types, all parameterized)", forcefield, len(observed))
	return pass(msg, details)
}
