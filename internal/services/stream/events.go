package stream

import (
	"time"

	"github.com/treeline-dev/treeline/internal/walker"
)

// SchemaVersion identifies the event payload layout.
const SchemaVersion = 1

// EventKind discriminates the event payloads a walk stream can carry.
type EventKind string

const (
	EventKindStart   EventKind = "start"
	EventKindStep    EventKind = "step"
	EventKindSummary EventKind = "summary"
	EventKindWarning EventKind = "warning"
	EventKindError   EventKind = "error"
	EventKindDone    EventKind = "done"
)

// Event is one element of a walk stream. Exactly one payload pointer is set
// for the kinds that carry one.
type Event struct {
	Version   int
	Kind      EventKind
	WalkID    string
	Path      string
	EmittedAt time.Time

	Step    *walker.Step
	Summary *SummaryEvent
	Message *LogEvent
	Err     *ErrorEvent
}

// SummaryEvent aggregates what one walk visited. It feeds logging only; the
// rendered text never includes it.
type SummaryEvent struct {
	Directories int
	Files       int
	Pruned      int
}

// LogEvent is a non-fatal diagnostic surfaced alongside the walk.
type LogEvent struct {
	Level   string
	Message string
}

// ErrorEvent carries the message of a failed walk.
type ErrorEvent struct {
	Message string
}
