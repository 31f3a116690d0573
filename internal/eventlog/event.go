package eventlog

import "time"

// Event types recorded in the workflow log.
const (
	TypeSystem         = "system"
	TypeValidation     = "validation"
	TypeValidationGate = "validation_gate"
	TypeStateChange    = "state_change"
	TypeToolInvocation = "tool_invocation"
)

// Event statuses.
const (
	StatusStarted = "started"
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusWarning = "warning"
)

// Event is a single record in the workflow log. Events are immutable once
// appended and serialize as one JSON object per line.
type Event struct {
	Timestamp  time.Time         `json:"timestamp"`
	EventType  string            `json:"event_type"`
	Tool       string            `json:"tool,omitempty"`
	Stage      string            `json:"stage,omitempty"`
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	Context    map[string]string `json:"context,omitempty"`
	DurationMS float64           `json:"duration_ms,omitempty"`
}

// Summary aggregates a log for display and export.
type Summary struct {
	TotalEvents int     `json:"total_events"`
	Validations int     `json:"validations"`
	GateChecks  int     `json:"gate_checks"`
	Failures    int     `json:"failures"`
	Warnings    int     `json:"warnings"`
	DurationSec float64 `json:"duration_seconds"`
}
