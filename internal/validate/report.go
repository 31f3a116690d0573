// Package validate holds the per-stage artifact validators. Validators are
// pure functions over file content: they never mutate workflow state and
// convert every data problem into a failed or warning report rather than an
// error.
package validate

// Outcome classifies a validation report.
type Outcome string

const (
	OutcomeOK                  Outcome = "ok"
	OutcomeNotFound            Outcome = "not_found"
	OutcomeMalformedInput      Outcome = "malformed_input"
	OutcomeIncompleteStructure Outcome = "incomplete_structure"
	OutcomeUnknownForceField   Outcome = "unknown_forcefield"
	OutcomeIncompleteCoverage  Outcome = "incomplete_coverage"
	OutcomeCompositionIssue    Outcome = "composition_issue"
)

// Report is the result of running one validator against one artifact.
// Warning marks advisory outcomes (coverage gaps, unknown force-field names)
// that a strict gate policy may upgrade to blocking.
type Report struct {
	Passed  bool
	Outcome Outcome
	Warning bool
	Message string
	Details map[string]string
}

func pass(msg string, details map[string]string) Report {
	return Report{Passed: true, Outcome: OutcomeOK, Message: msg, Details: details}
}

func fail(outcome Outcome, msg string) Report {
	return Report{Outcome: outcome, Message: msg}
}

func warn(outcome Outcome, msg string) Report {
	return Report{Outcome: outcome, Warning: true, Message: msg}
}
