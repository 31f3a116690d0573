package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mdfactory/mdgate/internal/eventlog"
)

// WorkflowEvent is a row in the workflow_events table.
type WorkflowEvent struct {
	ID        int
	RunID     string
	EventType string
	Tool      string
	Stage     string
	Status    string
	Message   string
	Context   string
	Timestamp string
}

// StageStat aggregates validation outcomes for one stage.
type StageStat struct {
	Stage    string
	Runs     int
	Passed   int
	Warnings int
}

// RecordEvent indexes one event for a run. It satisfies eventlog.Mirror, so
// attaching a DB to a log mirrors every append here. Validation events are
// additionally indexed in validation_runs for per-stage statistics.
func (d *DB) RecordEvent(runID string, e eventlog.Event) error {
	var ctx []byte
	if len(e.Context) > 0 {
		ctx, _ = json.Marshal(e.Context)
	}
	ts := e.Timestamp.UTC().Format(time.RFC3339Nano)

	_, err := d.conn.Exec(
		`INSERT INTO workflow_events (run_id, event_type, tool, stage, status, message, context, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, e.EventType, e.Tool, e.Stage, e.Status, e.Message, string(ctx), ts,
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}

	if e.EventType == eventlog.TypeValidation {
		_, err = d.conn.Exec(
			`INSERT INTO validation_runs (run_id, stage, tool, outcome, passed, warning, message, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, e.Stage, e.Tool, e.Context["outcome"],
			e.Status == eventlog.StatusSuccess, e.Status == eventlog.StatusWarning, e.Message, ts,
		)
		if err != nil {
			return fmt.Errorf("record validation run: %w", err)
		}
	}
	return nil
}

// RecentEvents returns up to limit of the most recent events for a run,
// oldest first. A zero limit returns everything.
func (d *DB) RecentEvents(runID string, limit int) ([]WorkflowEvent, error) {
	q := `SELECT id, run_id, event_type, tool, stage, status, message, context, timestamp
	      FROM workflow_events WHERE run_id = ? ORDER BY id DESC`
	args := []interface{}{runID}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := d.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []WorkflowEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	// Reverse into chronological order.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, rows.Err()
}

// Failures returns all failed events for a run in chronological order.
func (d *DB) Failures(runID string) ([]WorkflowEvent, error) {
	rows, err := d.conn.Query(
		`SELECT id, run_id, event_type, tool, stage, status, message, context, timestamp
		 FROM workflow_events WHERE run_id = ? AND status = 'failed' ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	var events []WorkflowEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// StageStats returns per-stage validation counts for a run.
func (d *DB) StageStats(runID string) ([]StageStat, error) {
	rows, err := d.conn.Query(
		`SELECT stage,
		        COUNT(*),
		        SUM(CASE WHEN passed THEN 1 ELSE 0 END),
		        SUM(CASE WHEN warning THEN 1 ELSE 0 END)
		 FROM validation_runs WHERE run_id = ? GROUP BY stage ORDER BY stage`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query stage stats: %w", err)
	}
	defer rows.Close()

	var stats []StageStat
	for rows.Next() {
		var s StageStat
		if err := rows.Scan(&s.Stage, &s.Runs, &s.Passed, &s.Warnings); err != nil {
			return nil, fmt.Errorf("scan stage stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Runs lists distinct run IDs with their first event timestamp, most recent
// first.
func (d *DB) Runs() ([]string, error) {
	rows, err := d.conn.Query(
		`SELECT run_id FROM workflow_events GROUP BY run_id ORDER BY MIN(timestamp) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}

func scanEvent(rows *sql.Rows) (WorkflowEvent, error) {
	var e WorkflowEvent
	var tool, stage, context sql.NullString
	if err := rows.Scan(&e.ID, &e.RunID, &e.EventType, &tool, &stage, &e.Status, &e.Message, &context, &e.Timestamp); err != nil {
		return e, fmt.Errorf("scan event: %w", err)
	}
	e.Tool = tool.String
	e.Stage = stage.String
	e.Context = context.String
	return e, nil
}
