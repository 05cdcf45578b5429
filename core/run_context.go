package core

import (
	"context"

	"github.com/agentloom/agentloom/logging"
)

// RunContext carries the mutable, per-run execution scope passed to a
// strategy's Process method. It aggregates:
//
//   - The ambient cancellation Context
//   - Identifiers (RunID, UserID)
//   - The user input that started the run
//   - The event emission channel with sequence assignment
//   - A Logger
//
// A RunContext is exclusively owned by one strategy instance for the duration
// of one run and is never shared across concurrent runs. Event emission blocks
// until the consumer pulls the event (backpressure) or the run context is
// cancelled, whichever happens first.
type RunContext struct {
	Context context.Context
	RunID   string
	UserID  string
	Input   string
	Logger  logging.Logger

	emit chan<- Event
	seq  uint64
}

// NewRunContext builds a run scope around an emission channel. The channel is
// owned by the caller (typically the dispatcher), which is responsible for
// closing it once the run goroutine returns.
func NewRunContext(ctx context.Context, runID, userID, input string, emit chan<- Event, logger logging.Logger) *RunContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &RunContext{
		Context: ctx,
		RunID:   runID,
		UserID:  userID,
		Input:   input,
		Logger:  logger,
		emit:    emit,
	}
}

// Done exposes the underlying context's cancellation channel.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Emit assigns the next sequence number and sends the event downstream. It
// blocks until the consumer receives the event, returning the context error if
// the run is cancelled first. Emission happens from a single goroutine per
// run, which is what keeps sequence numbers strictly increasing in stream
// order.
func (rc *RunContext) Emit(kind EventKind, sourceAgent, payload string) error {
	ev := NewEvent(rc.RunID, kind, sourceAgent, payload)
	rc.seq++
	ev.Seq = rc.seq

	select {
	case <-rc.Context.Done():
		return rc.Context.Err()
	case rc.emit <- ev:
		return nil
	}
}

// Progress emits an EventProgress event.
func (rc *RunContext) Progress(sourceAgent, payload string) error {
	return rc.Emit(EventProgress, sourceAgent, payload)
}

// Partial emits an EventPartial event.
func (rc *RunContext) Partial(sourceAgent, payload string) error {
	return rc.Emit(EventPartial, sourceAgent, payload)
}

// Warning emits an EventWarning event.
func (rc *RunContext) Warning(sourceAgent, payload string) error {
	return rc.Emit(EventWarning, sourceAgent, payload)
}

// Error emits an EventError event.
func (rc *RunContext) Error(sourceAgent, payload string) error {
	return rc.Emit(EventError, sourceAgent, payload)
}

// Final emits an EventFinal event.
func (rc *RunContext) Final(sourceAgent, payload string) error {
	return rc.Emit(EventFinal, sourceAgent, payload)
}
