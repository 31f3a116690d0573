package workflow

// maxWarnings bounds the warnings list kept for display; older entries are
// dropped first.
const maxWarnings = 20

// StateSnapshot is the workflow state as a plain value. The engine owns the
// live copy; everything handed out of the engine is a deep copy, so readers
// can never observe a half-applied update.
type StateSnapshot struct {
	StructureValidated  bool `json:"structure_validated"`
	ForceFieldValidated bool `json:"forcefield_validated"`
	SystemPrepared      bool `json:"system_prepared"`
	SimulationCompleted bool `json:"simulation_completed"`
	AnalysisCompleted   bool `json:"analysis_completed"`

	StructureFile  string `json:"structure_file,omitempty"`
	ForceField     string `json:"forcefield,omitempty"`
	SystemFile     string `json:"system_file,omitempty"`
	TrajectoryFile string `json:"trajectory_file,omitempty"`
	AnalysisFile   string `json:"analysis_file,omitempty"`

	LastError string   `json:"last_error,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Validated reports whether the given stage has a live validated flag.
func (s *StateSnapshot) Validated(stage Stage) bool {
	switch stage {
	case StageStructure:
		return s.StructureValidated
	case StageForceField:
		return s.ForceFieldValidated
	case StageSystemPreparation:
		return s.SystemPrepared
	case StageSimulation:
		return s.SimulationCompleted
	case StageAnalysis:
		return s.AnalysisCompleted
	}
	return false
}

// Artifact returns the last known good artifact reference for a stage, or
// "" when none is stored.
func (s *StateSnapshot) Artifact(stage Stage) string {
	switch stage {
	case StageStructure:
		return s.StructureFile
	case StageForceField:
		return s.ForceField
	case StageSystemPreparation:
		return s.SystemFile
	case StageSimulation:
		return s.TrajectoryFile
	case StageAnalysis:
		return s.AnalysisFile
	}
	return ""
}

// flagField returns the state_change event field name for a stage's flag.
func flagField(stage Stage) string {
	switch stage {
	case StageStructure:
		return "structure_validated"
	case StageForceField:
		return "forcefield_validated"
	case StageSystemPreparation:
		return "system_prepared"
	case StageSimulation:
		return "simulation_completed"
	case StageAnalysis:
		return "analysis_completed"
	}
	return ""
}

// artifactField returns the state_change event field name for a stage's
// artifact reference.
func artifactField(stage Stage) string {
	switch stage {
	case StageStructure:
		return "structure_file"
	case StageForceField:
		return "forcefield"
	case StageSystemPreparation:
		return "system_file"
	case StageSimulation:
		return "trajectory_file"
	case StageAnalysis:
		return "analysis_file"
	}
	return ""
}

// setStage sets a stage's flag and artifact reference in one update.
// Clearing requires artifact == "" so the flag/reference pair can never be
// half-updated.
func (s *StateSnapshot) setStage(stage Stage, validated bool, artifact string) {
	switch stage {
	case StageStructure:
		s.StructureValidated = validated
		s.StructureFile = artifact
	case StageForceField:
		s.ForceFieldValidated = validated
		s.ForceField = artifact
	case StageSystemPreparation:
		s.SystemPrepared = validated
		s.SystemFile = artifact
	case StageSimulation:
		s.SimulationCompleted = validated
		s.TrajectoryFile = artifact
	case StageAnalysis:
		s.AnalysisCompleted = validated
		s.AnalysisFile = artifact
	}
}

// addWarning appends to the bounded warnings list.
func (s *StateSnapshot) addWarning(w string) {
	s.Warnings = append(s.Warnings, w)
	if len(s.Warnings) > maxWarnings {
		s.Warnings = s.Warnings[len(s.Warnings)-maxWarnings:]
	}
}

// clone returns a deep copy.
func (s *StateSnapshot) clone() StateSnapshot {
	out := *s
	if s.Warnings != nil {
		out.Warnings = make([]string, len(s.Warnings))
		copy(out.Warnings, s.Warnings)
	}
	return out
}
