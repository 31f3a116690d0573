package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// maxMessageLen bounds the stored message per event; longer messages are
// truncated at append time.
const maxMessageLen = 500

// Mirror receives a copy of every appended event. The SQLite index
// implements this; a nil mirror is ignored.
type Mirror interface {
	RecordEvent(runID string, e Event) error
}

// LogFileName is the JSONL log file kept under each working directory. One
// working directory is one run; reopening the log resumes the run.
const LogFileName = "workflow_log.jsonl"

// Log is the append-only event log for a single workflow run. Appends are
// serialized and timestamps never decrease, so the on-disk JSONL file can be
// replayed in order. Records are written one JSON object per line.
type Log struct {
	mu       sync.Mutex
	runID    string
	path     string
	events   []Event
	lastTS   time.Time
	mirror   Mirror
	writeErr error
	now      func() time.Time
}

// Open creates or resumes the event log for the run rooted at workdir. A
// fresh run gets a new run ID and an initialization event; an existing log
// is replayed into memory and its run ID recovered from the first record.
func Open(workdir string) (*Log, error) {
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", workdir, err)
	}
	l := &Log{
		path: filepath.Join(workdir, LogFileName),
		now:  time.Now,
	}

	if _, err := os.Stat(l.path); err == nil {
		events, err := Replay(l.path)
		if err != nil {
			return nil, err
		}
		l.events = events
		if len(events) > 0 {
			l.runID = events[0].Context["run_id"]
			l.lastTS = events[len(events)-1].Timestamp
		}
	}
	if l.runID == "" {
		l.runID = uuid.NewString()
		l.Append(Event{
			EventType: TypeSystem,
			Status:    StatusStarted,
			Message:   "workflow log initialized",
			Context:   map[string]string{"workdir": workdir, "run_id": l.runID},
		})
	}
	return l, nil
}

// RunID returns the unique identifier for this run.
func (l *Log) RunID() string {
	return l.runID
}

// Path returns the JSONL file backing this log.
func (l *Log) Path() string {
	return l.path
}

// AttachMirror forwards all subsequent appends to m as well.
func (l *Log) AttachMirror(m Mirror) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mirror = m
}

// Append stamps, stores, and persists one event. The event's timestamp is
// assigned here and clamped so it never precedes the previous event's. A
// write failure keeps the event in memory and never blocks the caller, but
// is warned to stderr and retained for WriteError so a diverging disk trail
// is not silent.
func (l *Log) Append(e Event) Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now().UTC()
	if ts.Before(l.lastTS) {
		ts = l.lastTS
	}
	l.lastTS = ts
	e.Timestamp = ts

	if len(e.Message) > maxMessageLen {
		cut := maxMessageLen
		for cut > 0 && !utf8.RuneStart(e.Message[cut]) {
			cut--
		}
		e.Message = e.Message[:cut]
	}

	l.events = append(l.events, e)

	if data, err := json.Marshal(e); err != nil {
		l.noteWriteError(err)
	} else if f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
		l.noteWriteError(err)
	} else {
		if _, err := f.Write(append(data, '\n')); err != nil {
			l.noteWriteError(err)
		}
		f.Close()
	}

	if l.mirror != nil {
		// Mirror failures must not poison the run; the JSONL file is the
		// authoritative trail.
		_ = l.mirror.RecordEvent(l.runID, e)
	}
	return e
}

// noteWriteError records the first disk failure and warns on every one.
// Called with the mutex held.
func (l *Log) noteWriteError(err error) {
	if l.writeErr == nil {
		l.writeErr = err
	}
	fmt.Fprintf(os.Stderr, "warning: failed to write workflow log %s: %v\n", l.path, err)
}

// WriteError returns the first failure persisting an event to disk, or nil.
// The in-memory history is complete even when this is non-nil.
func (l *Log) WriteError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeErr
}

// Events returns a copy of all events in append order.
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Recent returns up to n of the most recent events, oldest first.
func (l *Log) Recent(n int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.events) {
		n = len(l.events)
	}
	out := make([]Event, n)
	copy(out, l.events[len(l.events)-n:])
	return out
}

// Errors returns all failed events in append order.
func (l *Log) Errors() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, e := range l.events {
		if e.Status == StatusFailed {
			out = append(out, e)
		}
	}
	return out
}

// Summarize computes aggregate counts over the log.
func (l *Log) Summarize() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Summary{TotalEvents: len(l.events)}
	for _, e := range l.events {
		switch e.EventType {
		case TypeValidation:
			s.Validations++
		case TypeValidationGate:
			s.GateChecks++
		}
		switch e.Status {
		case StatusFailed:
			s.Failures++
		case StatusWarning:
			s.Warnings++
		}
	}
	if len(l.events) > 1 {
		s.DurationSec = l.events[len(l.events)-1].Timestamp.Sub(l.events[0].Timestamp).Seconds()
	}
	return s
}

// Replay reads a JSONL log file back as an ordered event slice. Blank lines
// are skipped; a malformed line aborts the replay since the file is
// append-only and should never contain partial records.
func Replay(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	defer f.Close()

	var events []Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", line, err)
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}
	return events, nil
}
