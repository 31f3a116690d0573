package config

import (
	"fmt"
	"strings"
)

// Validate checks a loaded configuration for values that would make the
// validators misbehave. Called after defaults are applied, so zero values
// have already been filled in.
func Validate(cfg *Config) error {
	thresholds := []struct {
		name string
		val  *int
		min  int
	}{
		{"structure.min_atoms", cfg.Structure.MinAtoms, 1},
		{"system.min_protein_atoms", cfg.System.MinProteinAtoms, 0},
		{"system.min_water_atoms", cfg.System.MinWaterAtoms, 0},
		{"system.min_ions", cfg.System.MinIons, 0},
	}
	for _, t := range thresholds {
		if t.val == nil {
			return fmt.Errorf("%s is not set", t.name)
		}
		if *t.val < t.min {
			return fmt.Errorf("%s must be at least %d, got %d", t.name, t.min, *t.val)
		}
	}
	for i, pat := range cfg.ForceField.NamePatterns {
		if strings.TrimSpace(pat) == "" {
			return fmt.Errorf("forcefield.name_patterns[%d] is empty", i)
		}
	}
	for i, name := range cfg.ForceField.Known {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("forcefield.known[%d] is empty", i)
		}
	}
	return nil
}
