package core

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies an orchestration event.
type EventKind string

const (
	// EventProgress announces a step starting or an intermediate phase
	// (agent processing, delegation plan, aggregation) without carrying output.
	EventProgress EventKind = "progress"
	// EventPartial carries intermediate agent output produced mid-run.
	EventPartial EventKind = "partial"
	// EventWarning reports a degraded-but-continuing condition, such as a
	// referenced agent missing from the directory or a failed invocation.
	EventWarning EventKind = "warning"
	// EventError reports a terminal failure; it is the last event of its run.
	EventError EventKind = "error"
	// EventFinal carries the run's end result and closes the stream on the
	// success path.
	EventFinal EventKind = "final"
)

// Event is one unit of a run's output stream. After emission it should be
// treated as immutable. Sequence numbers strictly increase within one run, so
// consumers observe events in emission order. An Event marshals to a single
// flat JSON object, making it suitable for line-delimited streaming transports
// without any additional framing.
type Event struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id"`
	Seq         uint64    `json:"seq"`
	Kind        EventKind `json:"kind"`
	SourceAgent string    `json:"source_agent,omitempty"`
	Payload     string    `json:"payload"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEvent creates an event bound to a run. The sequence number is assigned
// at emission time by the RunContext, not here.
func NewEvent(runID string, kind EventKind, sourceAgent, payload string) Event {
	return Event{
		ID:          NewID(),
		RunID:       runID,
		Kind:        kind,
		SourceAgent: sourceAgent,
		Payload:     payload,
		Timestamp:   time.Now().UTC(),
	}
}

// IsTerminal reports whether this event closes its run's stream.
func (e Event) IsTerminal() bool {
	return e.Kind == EventFinal || e.Kind == EventError
}

// NewID generates a new unique identifier for runs and events.
func NewID() string { return uuid.NewString() }
