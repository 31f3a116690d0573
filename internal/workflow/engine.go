package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mdfactory/mdgate/internal/config"
	"github.com/mdfactory/mdgate/internal/eventlog"
	"github.com/mdfactory/mdgate/internal/validate"
)

// Engine is the validation gate and state tracker for one pipeline run. It
// owns the run's WorkflowState exclusively: all mutation goes through its
// methods, every mutation is logged, and a mutex serializes mutating calls
// so the flag/reference pair is never observed half-updated.
//
// The gate contract: callers must not start a simulation while
// CheckWorkflowStatus reports false.
type Engine struct {
	mu      sync.Mutex
	workdir string
	cfg     *config.Config
	log     *eventlog.Log
	state   StateSnapshot
}

// NewEngine creates an engine rooted at workdir. A nil cfg uses built-in
// defaults.
func NewEngine(workdir string, cfg *config.Config, log *eventlog.Log) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{workdir: workdir, cfg: cfg, log: log}
}

// Workdir returns the working directory artifacts are resolved against.
func (e *Engine) Workdir() string {
	return e.workdir
}

// Log returns the run's event log.
func (e *Engine) Log() *eventlog.Log {
	return e.log
}

// Snapshot returns a value copy of the current workflow state.
func (e *Engine) Snapshot() StateSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Restore replaces the engine's state with a previously persisted or
// exported snapshot. Used when resuming a run; individual field changes are
// not replayed as state_change events.
func (e *Engine) Restore(snap StateSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = snap.clone()
}

// resolve joins relative artifact paths onto the working directory.
func (e *Engine) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.workdir, path)
}

// fileBacked reports whether a stage's artifact is a local file path. The
// force-field artifact is a name, never a path.
func fileBacked(stage Stage) bool {
	return stage != StageForceField
}

// ValidateStructure runs the structure validator against path and promotes
// the structure stage on success.
func (e *Engine) ValidateStructure(path string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateStructureLocked(path)
}

func (e *Engine) validateStructureLocked(path string) Result {
	full := e.resolve(path)
	rep := validate.Structure(full, validate.StructureParams{MinAtoms: *e.cfg.Structure.MinAtoms})
	res := newResult(StageStructure, rep)
	e.logResult("validate_structure", res)
	if e.satisfies(res) {
		e.promoteLocked(StageStructure, full, res)
	} else {
		e.state.LastError = res.Message
	}
	return res
}

// ValidateForceFieldCoverage checks that forcefield covers the residues in
// the structure at path and promotes the force-field stage when it does. An
// unrecognized force-field name is a warning that never promotes; a coverage
// gap promotes with a warning unless gate.strict_coverage is set.
func (e *Engine) ValidateForceFieldCoverage(path, forcefield string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	full := e.resolve(path)
	rep := validate.ForceFieldCoverage(full, forcefield, validate.ForceFieldParams{
		Known:        e.cfg.ForceField.Known,
		NamePatterns: e.cfg.ForceField.NamePatterns,
	})
	res := newResult(StageForceField, rep)
	e.logResult("validate_forcefield_coverage", res)
	if e.satisfies(res) {
		e.promoteLocked(StageForceField, forcefield, res)
	} else {
		e.state.LastError = res.Message
	}
	return res
}

// ValidateSystemPreparation checks the solvated system at path and promotes
// the system-preparation stage on success.
func (e *Engine) ValidateSystemPreparation(path string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	full := e.resolve(path)
	rep := validate.SystemPreparation(full, validate.SystemParams{
		MinProteinAtoms: *e.cfg.System.MinProteinAtoms,
		MinWaterAtoms:   *e.cfg.System.MinWaterAtoms,
		MinIons:         *e.cfg.System.MinIons,
	})
	res := newResult(StageSystemPreparation, rep)
	e.logResult("validate_system_preparation", res)
	if e.satisfies(res) {
		e.promoteLocked(StageSystemPreparation, full, res)
	} else {
		e.state.LastError = res.Message
	}
	return res
}

// Validate dispatches to the validator for stage. ForceField reads the
// force-field name from param.
func (e *Engine) Validate(stage Stage, artifact, param string) (Result, error) {
	switch stage {
	case StageStructure:
		return e.ValidateStructure(artifact), nil
	case StageForceField:
		return e.ValidateForceFieldCoverage(artifact, param), nil
	case StageSystemPreparation:
		return e.ValidateSystemPreparation(artifact), nil
	default:
		return Result{}, fmt.Errorf("no validator registered for stage %q", stage)
	}
}

// satisfies decides whether a result promotes its stage. Warning-class
// coverage gaps promote unless strict coverage is configured; an
// unrecognized force field never promotes because coverage could not be
// checked at all.
func (e *Engine) satisfies(res Result) bool {
	if res.Passed {
		return true
	}
	if !res.Warning {
		return false
	}
	switch res.Outcome {
	case validate.OutcomeIncompleteStructure:
		return true
	case validate.OutcomeIncompleteCoverage:
		return !e.cfg.Gate.StrictCoverage
	default:
		return false
	}
}

// promoteLocked sets a stage validated with its artifact, recording state
// changes and any warning carried by the result.
func (e *Engine) promoteLocked(stage Stage, artifact string, res Result) {
	e.setStageLocked(stage, true, artifact)
	if res.Warning {
		e.state.addWarning(res.Message)
	}
}

// setStageLocked applies the flag+reference pair in one update and emits a
// state_change record per field that moved.
func (e *Engine) setStageLocked(stage Stage, validated bool, artifact string) {
	if !validated {
		artifact = ""
	}
	oldValidated := e.state.Validated(stage)
	oldArtifact := e.state.Artifact(stage)
	e.state.setStage(stage, validated, artifact)

	if oldValidated != validated {
		e.logStateChange(stage, flagField(stage), fmt.Sprintf("%t", oldValidated), fmt.Sprintf("%t", validated))
	}
	if oldArtifact != artifact {
		e.logStateChange(stage, artifactField(stage), oldArtifact, artifact)
	}
}

// MarkValidated manually promotes a stage, for callers that established the
// stage's validity by other means. File-backed stages still require the
// artifact to exist on disk.
func (e *Engine) MarkValidated(stage Stage, artifact string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	ref := artifact
	if fileBacked(stage) {
		ref = e.resolve(artifact)
		info, err := os.Stat(ref)
		if err != nil || info.IsDir() {
			msg := fmt.Sprintf("cannot mark %s validated: file not found: %s", stage, artifact)
			if err == nil {
				msg = fmt.Sprintf("cannot mark %s validated: %s is a directory", stage, artifact)
			}
			rep := validate.Report{
				Outcome: validate.OutcomeNotFound,
				Message: msg,
			}
			res := newResult(stage, rep)
			e.logResult("mark_validated", res)
			return res
		}
	}

	res := newResult(stage, validate.Report{
		Passed:  true,
		Outcome: validate.OutcomeOK,
		Message: fmt.Sprintf("%s manually marked validated: %s", stage.Label(), artifact),
	})
	e.logResult("mark_validated", res)
	e.setStageLocked(stage, true, ref)
	return res
}

// CheckWorkflowStatus is the validation gate: it decides whether the
// pipeline may proceed to simulation and reports each required stage's
// status in pipeline order. Previously validated stages whose artifact
// vanished are demoted; unvalidated stages are auto-discovered from the
// working directory when the policy allows. Data problems never surface as
// errors, only as a false verdict with the reason in the report.
func (e *Engine) CheckWorkflowStatus() (bool, string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var parts []string
	allValid := true

	// Structure: confirm, demote, or auto-discover.
	switch {
	case e.state.StructureValidated && e.state.StructureFile != "":
		if _, err := os.Stat(e.state.StructureFile); err == nil {
			parts = append(parts, fmt.Sprintf("[ok] Structure: %s", filepath.Base(e.state.StructureFile)))
			e.logGateStage(StageStructure, true, "confirmed: "+filepath.Base(e.state.StructureFile))
		} else {
			// Demote, then fall through to discovery: another candidate in
			// the working directory can satisfy the stage in the same check.
			e.demoteLocked(StageStructure)
			line, ok := e.discoverStructureLocked("Structure file missing")
			parts = append(parts, line)
			if !ok {
				allValid = false
			}
		}
	default:
		line, ok := e.discoverStructureLocked("No structure file found")
		parts = append(parts, line)
		if !ok {
			allValid = false
		}
	}

	// Force field: the artifact is a name, so there is nothing to demote or
	// discover; either a force field was validated or the stage blocks.
	if e.state.ForceFieldValidated && e.state.ForceField != "" {
		parts = append(parts, "[ok] Force field: "+e.state.ForceField)
		e.logGateStage(StageForceField, true, "confirmed: "+e.state.ForceField)
	} else {
		parts = append(parts, "[!!] Force field not validated")
		allValid = false
	}

	var report string
	if allValid {
		report = "WORKFLOW READY - all prerequisites met:\n  " + strings.Join(parts, "\n  ")
	} else {
		report = "WORKFLOW HALTED - prerequisites not met:\n  " + strings.Join(parts, "\n  ")
		e.state.LastError = "validation gate failed: prerequisites not met"
	}

	status := eventlog.StatusSuccess
	if !allValid {
		status = eventlog.StatusFailed
	}
	e.log.Append(eventlog.Event{
		EventType: eventlog.TypeValidationGate,
		Tool:      "check_workflow_status",
		Status:    status,
		Message:   report,
		Context:   map[string]string{"passed": fmt.Sprintf("%t", allValid)},
	})
	return allValid, report
}

// CheckSystemReady reports whether a prepared system exists for simulation,
// demoting the stage when the prepared file vanished.
func (e *Engine) CheckSystemReady() (bool, string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.SystemPrepared && e.state.SystemFile != "" {
		if _, err := os.Stat(e.state.SystemFile); err == nil {
			return true, "system ready: " + filepath.Base(e.state.SystemFile)
		}
		e.demoteLocked(StageSystemPreparation)
		return false, "prepared system file no longer exists"
	}
	return false, "no system has been prepared for simulation"
}

// StageStatus returns a one-line status for a stage, demoting file-backed
// stages whose artifact vanished.
func (e *Engine) StageStatus(stage Stage) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.Validated(stage) || e.state.Artifact(stage) == "" {
		return fmt.Sprintf("%s: not validated", stage.Label())
	}
	ref := e.state.Artifact(stage)
	if fileBacked(stage) {
		if _, err := os.Stat(ref); err != nil {
			e.demoteLocked(stage)
			return fmt.Sprintf("%s: previously validated artifact no longer exists", stage.Label())
		}
		ref = filepath.Base(ref)
	}
	return fmt.Sprintf("%s: validated (%s)", stage.Label(), ref)
}

// discoverStructureLocked scans the working directory for a structure
// candidate and validates the first one found. It returns the report line for
// the stage and whether the stage is now satisfied; fallback is the line used
// when discovery is disabled or finds nothing.
func (e *Engine) discoverStructureLocked(fallback string) (string, bool) {
	if !e.cfg.Gate.SkipAutoDiscover {
		if candidates := e.findArtifacts(".pdb"); len(candidates) > 0 {
			res := e.validateStructureLocked(candidates[0])
			if e.state.StructureValidated {
				e.logGateStage(StageStructure, true, "auto-detected: "+filepath.Base(candidates[0]))
				return fmt.Sprintf("[ok] Structure: %s (auto-detected)", filepath.Base(candidates[0])), true
			}
			return "[!!] Structure: " + res.Message, false
		}
	}
	return "[!!] " + fallback, false
}

// demoteLocked reverts a previously validated stage because its backing
// artifact disappeared, clearing flag and reference in the same update.
func (e *Engine) demoteLocked(stage Stage) {
	artifact := e.state.Artifact(stage)
	res := newResult(stage, validate.Report{
		Outcome: validate.OutcomeNotFound,
		Message: fmt.Sprintf("%s demoted: artifact missing: %s", stage.Label(), artifact),
	})
	e.logResult("demote", res)
	e.setStageLocked(stage, false, "")
	e.state.LastError = res.Message
}

// findArtifacts lists working-directory files with the given extension, in
// directory order.
func (e *Engine) findArtifacts(ext string) []string {
	entries, err := os.ReadDir(e.workdir)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ext) {
			out = append(out, filepath.Join(e.workdir, entry.Name()))
		}
	}
	return out
}

// GetValidationSummary renders the current state for every stage in pipeline
// order. It reads a snapshot only: no artifacts are re-validated, so two
// calls with no intervening mutation return identical text.
func (e *Engine) GetValidationSummary() string {
	e.mu.Lock()
	state := e.state.clone()
	e.mu.Unlock()

	var b strings.Builder
	b.WriteString("VALIDATION SUMMARY\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	for _, stage := range AllStages() {
		status := "not validated"
		if state.Validated(stage) {
			ref := state.Artifact(stage)
			if fileBacked(stage) {
				ref = filepath.Base(ref)
			}
			status = fmt.Sprintf("validated (%s)", ref)
		}
		b.WriteString(fmt.Sprintf("%-20s %s\n", stage.Label()+":", status))
	}
	b.WriteString(strings.Repeat("=", 50) + "\n")
	if state.StructureValidated && state.ForceFieldValidated {
		b.WriteString("Overall: READY FOR SIMULATION\n")
	} else {
		b.WriteString("Overall: NOT READY\n")
	}
	if len(state.Warnings) > 0 {
		b.WriteString(fmt.Sprintf("Warnings: %d (latest: %s)\n",
			len(state.Warnings), state.Warnings[len(state.Warnings)-1]))
	}
	return b.String()
}

// Reset clears every validation flag and artifact reference, logging each
// field that changes.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, stage := range AllStages() {
		if e.state.Validated(stage) || e.state.Artifact(stage) != "" {
			e.setStageLocked(stage, false, "")
		}
	}
	e.state.LastError = ""
	e.state.Warnings = nil
	e.log.Append(eventlog.Event{
		EventType: eventlog.TypeSystem,
		Tool:      "reset",
		Status:    eventlog.StatusSuccess,
		Message:   "all validation state reset",
	})
}

// logResult records a validation result in the event log.
func (e *Engine) logResult(tool string, res Result) {
	status := eventlog.StatusFailed
	switch {
	case res.Passed:
		status = eventlog.StatusSuccess
	case res.Warning:
		status = eventlog.StatusWarning
	}
	ctx := map[string]string{"outcome": string(res.Outcome)}
	for k, v := range res.Details {
		ctx[k] = v
	}
	e.log.Append(eventlog.Event{
		EventType: eventlog.TypeValidation,
		Tool:      tool,
		Stage:     res.Stage.String(),
		Status:    status,
		Message:   res.Message,
		Context:   ctx,
	})
}

// logGateStage records a per-stage confirmation during a gate check.
func (e *Engine) logGateStage(stage Stage, passed bool, msg string) {
	status := eventlog.StatusSuccess
	if !passed {
		status = eventlog.StatusFailed
	}
	e.log.Append(eventlog.Event{
		EventType: eventlog.TypeValidationGate,
		Stage:     stage.String(),
		Status:    status,
		Message:   msg,
	})
}

// logStateChange records one field transition.
func (e *Engine) logStateChange(stage Stage, field, oldVal, newVal string) {
	e.log.Append(eventlog.Event{
		EventType: eventlog.TypeStateChange,
		Stage:     stage.String(),
		Status:    eventlog.StatusSuccess,
		Message:   fmt.Sprintf("state %s changed: %q -> %q", field, oldVal, newVal),
		Context:   map[string]string{"field": field, "old_value": oldVal, "new_value": newVal},
	})
}
