package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SystemParams tunes the system-preparation validator. A zero threshold
// disables that check.
type SystemParams struct {
	MinProteinAtoms int
	MinWaterAtoms   int
	MinIons         int
}

// Default composition thresholds for a solvated, neutralized system, applied
// by the config layer when a key is left unset.
const (
	DefaultMinProteinAtoms = 100
	DefaultMinWaterAtoms   = 100
	DefaultMinIons         = 1
)

// SystemPreparation validates that a solvated system file is ready for
// simulation: it exists and contains protein, water, and ions in plausible
// amounts. All composition issues are collected into one failed report
// rather than stopping at the first. Thresholds are taken as given: a zero
// threshold disables that composition check, so callers wanting the defaults
// must pass them explicitly.
func SystemPreparation(path string, p SystemParams) Report {
	minProtein := p.MinProteinAtoms
	minWater := p.MinWaterAtoms
	minIons := p.MinIons

	if _, err := os.Stat(path); err != nil {
		return fail(OutcomeNotFound, fmt.Sprintf("system file not found: %s", filepath.Base(path)))
	}

	records, err := scanAtomRecords(path)
	if err != nil {
		return fail(OutcomeMalformedInput, fmt.Sprintf("error reading system file: %v", err))
	}

	var protein, water, ions int
	for _, r := range records {
		switch {
		case waterResidues[r.ResName]:
			water++
		case ionResidues[r.ResName]:
			ions++
		default:
			protein++
		}
	}

	var issues []string
	if protein < minProtein {
		issues = append(issues, fmt.Sprintf("low protein atom count: %d", protein))
	}
	if water < minWater {
		issues = append(issues, fmt.Sprintf("low water count: %d (may need more solvation)", water))
	}
	if ions < minIons {
		issues = append(issues, fmt.Sprintf("no ions found (%d) - system may not be neutralized", ions))
	}
	if len(issues) > 0 {
		return fail(OutcomeCompositionIssue, "system preparation issues: "+strings.Join(issues, "; "))
	}

	details := map[string]string{
		"atoms":         strconv.Itoa(len(records)),
		"protein_atoms": strconv.Itoa(protein),
		"water_atoms":   strconv.Itoa(water),
		"ion_atoms":     strconv.Itoa(ions),
	}
	msg := fmt.Sprintf("system prepared: %s (%d total atoms: %d protein, %d water, %d ions)",
		filepath.Base(path), len(records), protein, water, ions)
	return pass(msg, details)
}
