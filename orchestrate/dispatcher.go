package orchestrate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/logging"
	"github.com/agentloom/agentloom/workflow"
)

// Options holds dependency + configuration overrides passed to NewDispatcher.
type Options struct {
	// InvokeTimeout bounds each agent invocation. Zero disables the bound.
	InvokeTimeout time.Duration
	// EventBufferSize sets channel buffering for the event stream. The
	// default of zero gives strict backpressure: the producing strategy
	// suspends between events until the consumer pulls the next one.
	EventBufferSize int
	// Logger receives dispatcher and strategy logs. Defaults to NoOp.
	Logger logging.Logger
}

// Dispatcher routes a run to the strategy for its workflow's pattern and owns
// the event stream lifecycle. It performs no content transformation itself
// and never buffers a whole stream; events are forwarded as produced.
//
// Runs are independent: each gets its own run context and sequence counter,
// and the dispatcher holds no mutable state shared between them beyond the
// cancellation bookkeeping. Public methods are safe for concurrent use.
type Dispatcher struct {
	dynamic         *Dynamic
	eventBufferSize int
	logger          logging.Logger

	activeRuns map[string]context.CancelFunc
	mu         sync.Mutex
}

// NewDispatcher constructs a Dispatcher over an agent directory with optional
// overrides.
func NewDispatcher(dir core.Directory, optFns ...func(o *Options)) *Dispatcher {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Dispatcher{
		dynamic:         NewDynamic(dir, Config{InvokeTimeout: opts.InvokeTimeout}),
		eventBufferSize: opts.EventBufferSize,
		logger:          opts.Logger,
		activeRuns:      make(map[string]context.CancelFunc),
	}
}

// WithInvokeTimeout bounds each Handle.Invoke call.
func WithInvokeTimeout(d time.Duration) func(o *Options) {
	return func(o *Options) { o.InvokeTimeout = d }
}

// WithEventBufferSize sets the event channel buffer.
func WithEventBufferSize(n int) func(o *Options) {
	return func(o *Options) { o.EventBufferSize = n }
}

// WithLogger sets the dispatcher logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Run starts a run and returns its ID plus the live event stream. The channel
// closes when the run finishes, errors out or is cancelled; the sequence it
// carries is finite, ordered and terminated by a final or error event on
// every code path.
//
// Cancel the supplied context (or call Cancel with the run ID) to abandon the
// run: every blocking point inside a run selects on the context, so
// outstanding agent invocations are released promptly and no orphaned work
// keeps mutating state after cancellation.
func (d *Dispatcher) Run(ctx context.Context, wf workflow.WorkflowConfig, userID, input string) (string, <-chan core.Event) {
	runID := core.NewID()
	events := make(chan core.Event, d.eventBufferSize)

	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.activeRuns[runID] = cancel
	d.mu.Unlock()

	// Clone so a caller mutating its config mid-run cannot leak into the
	// strategy; the definition is immutable for the duration of the run.
	rc := core.NewRunContext(ctx, runID, userID, input, events, d.logger)
	def := wf.Clone()

	go func() {
		defer func() {
			close(events)
			cancel()
			d.mu.Lock()
			delete(d.activeRuns, runID)
			d.mu.Unlock()
		}()

		if err := d.dynamic.Process(rc, def); err != nil {
			// Emission only fails when the run context is cancelled; nothing
			// propagates past the dispatcher boundary.
			d.logger.Debug("run ended early", "run_id", runID, "workflow", def.Name, "error", err)
		}
	}()

	return runID, events
}

// Cancel cancels a running run by ID.
func (d *Dispatcher) Cancel(runID string) error {
	d.mu.Lock()
	cancel, exists := d.activeRuns[runID]
	d.mu.Unlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}

	cancel()

	return nil
}

// ActiveRuns reports how many runs are currently in flight.
func (d *Dispatcher) ActiveRuns() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.activeRuns)
}
