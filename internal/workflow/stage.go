package workflow

import "fmt"

// Stage identifies one phase of the protein MD pipeline. Stages are ordered:
// Structure < ForceField < SystemPreparation < Simulation < Analysis.
type Stage int

const (
	StageStructure Stage = iota
	StageForceField
	StageSystemPreparation
	StageSimulation
	StageAnalysis
)

var stageNames = map[Stage]string{
	StageStructure:         "structure",
	StageForceField:        "forcefield",
	StageSystemPreparation: "system",
	StageSimulation:        "simulation",
	StageAnalysis:          "analysis",
}

var stageLabels = map[Stage]string{
	StageStructure:         "Structure",
	StageForceField:        "Force field",
	StageSystemPreparation: "System preparation",
	StageSimulation:        "Simulation",
	StageAnalysis:          "Analysis",
}

// String returns the stable machine name used in events and the CLI.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Label returns the human-readable name used in reports.
func (s Stage) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return s.String()
}

// Order returns the stage's position in pipeline precedence.
func (s Stage) Order() int {
	return int(s)
}

// AllStages returns every stage in pipeline order.
func AllStages() []Stage {
	return []Stage{
		StageStructure,
		StageForceField,
		StageSystemPreparation,
		StageSimulation,
		StageAnalysis,
	}
}

// RequiredForSimulation returns the stages the gate checks before a
// simulation may start, in order.
func RequiredForSimulation() []Stage {
	return []Stage{StageStructure, StageForceField}
}

// ParseStage maps a machine name back to its Stage. An unknown name is a
// caller bug, not a data problem, so it returns an error rather than a
// failed result.
func ParseStage(name string) (Stage, error) {
	for s, n := range stageNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown validation stage %q", name)
}
