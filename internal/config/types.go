package config

// Config is the top-level mdgate configuration parsed from YAML.
type Config struct {
	Gate       GateConfig       `yaml:"gate"`
	Structure  StructureConfig  `yaml:"structure"`
	ForceField ForceFieldConfig `yaml:"forcefield"`
	System     SystemConfig     `yaml:"system"`
}

// GateConfig controls gate policy.
type GateConfig struct {
	// StrictCoverage upgrades force-field coverage warnings from advisory
	// to blocking. This is the single policy knob: the validator always
	// reports coverage gaps the same way, only the gate consults it.
	StrictCoverage bool `yaml:"strict_coverage"`
	// SkipAutoDiscover stops the gate from scanning the working directory
	// for candidate artifacts when state does not already reference one.
	SkipAutoDiscover bool `yaml:"skip_auto_discover"`
}

// StructureConfig tunes structure validation. Threshold fields are pointers
// so an explicit zero in the YAML is distinguishable from an unset key.
type StructureConfig struct {
	MinAtoms *int `yaml:"min_atoms"`
}

// ForceFieldConfig tunes force-field coverage validation.
type ForceFieldConfig struct {
	Known        []string `yaml:"known"`
	NamePatterns []string `yaml:"name_patterns"`
}

// SystemConfig tunes system-preparation validation. An explicit zero
// threshold disables that composition check; an unset key takes the default.
type SystemConfig struct {
	MinProteinAtoms *int `yaml:"min_protein_atoms"`
	MinWaterAtoms   *int `yaml:"min_water_atoms"`
	MinIons         *int `yaml:"min_ions"`
}
