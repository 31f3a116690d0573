package workflow

import (
	"time"

	"github.com/mdfactory/mdgate/internal/validate"
)

// Result is the immutable record of one validation attempt. Passed means the
// validator found nothing wrong; Warning marks advisory outcomes that may
// still satisfy the gate depending on policy. Callers should branch on
// Outcome and the booleans, never on the message text.
type Result struct {
	Stage     Stage             `json:"-"`
	StageName string            `json:"stage"`
	Passed    bool              `json:"passed"`
	Warning   bool              `json:"warning,omitempty"`
	Outcome   validate.Outcome  `json:"outcome"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func newResult(stage Stage, rep validate.Report) Result {
	return Result{
		Stage:     stage,
		StageName: stage.String(),
		Passed:    rep.Passed,
		Warning:   rep.Warning,
		Outcome:   rep.Outcome,
		Message:   rep.Message,
		Details:   rep.Details,
		Timestamp: time.Now().UTC(),
	}
}
