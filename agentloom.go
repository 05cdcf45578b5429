// Package agentloom provides a high-level façade over the workflow registry,
// agent directory and orchestration dispatcher. Most applications interact
// with this package by:
//  1. Creating an AgentLoom via New() (optionally overriding defaults)
//  2. Registering agent handles and workflow configurations
//  3. Starting runs asynchronously (Run) or synchronously (RunSync)
//
// The façade delegates pattern selection and execution to the orchestrate
// package while keeping setup ergonomics concise. All defaults are safe for
// local development and testing; production deployments typically supply a
// structured logger and a persistent registry directory.
package agentloom

import (
	"context"
	"time"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/directory"
	"github.com/agentloom/agentloom/logging"
	"github.com/agentloom/agentloom/orchestrate"
	"github.com/agentloom/agentloom/registry"
	"github.com/agentloom/agentloom/workflow"
)

// Options configures the AgentLoom instance.
type Options struct {
	// RegistryDir is the directory holding agent and workflow YAML files.
	RegistryDir string

	// InvokeTimeout bounds each individual agent invocation within a run.
	// Zero means no per-invocation deadline.
	InvokeTimeout time.Duration

	// EventBufferSize sets the channel buffer size for run event streams.
	// Zero yields an unbuffered channel, so producers block until each
	// event is consumed.
	EventBufferSize int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentLoom is the high-level façade aggregating the registry, the agent
// directory and the dispatcher.
type AgentLoom struct {
	registry   *registry.Registry
	directory  *directory.InMemory
	dispatcher *orchestrate.Dispatcher
}

// New creates a new AgentLoom instance with optional overrides. The registry
// directory is created on first write if it does not exist.
func New(optFns ...func(o *Options)) (*AgentLoom, error) {
	opts := Options{
		RegistryDir: "agents",
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	reg, err := registry.New(opts.RegistryDir, registry.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	dir := directory.NewInMemory()
	disp := orchestrate.NewDispatcher(dir,
		orchestrate.WithInvokeTimeout(opts.InvokeTimeout),
		orchestrate.WithEventBufferSize(opts.EventBufferSize),
		orchestrate.WithLogger(opts.Logger),
	)

	return &AgentLoom{registry: reg, directory: dir, dispatcher: disp}, nil
}

// Registry returns the underlying workflow registry.
func (l *AgentLoom) Registry() *registry.Registry { return l.registry }

// Dispatcher returns the underlying dispatcher.
func (l *AgentLoom) Dispatcher() *orchestrate.Dispatcher { return l.dispatcher }

// RegisterHandle binds an invocable handle to an agent name, making the agent
// available to workflow runs.
func (l *AgentLoom) RegisterHandle(name string, h core.Handle) {
	l.directory.Register(name, h)
}

// RegisterWorkflow validates a workflow configuration against the handles
// registered so far and persists it to the registry.
func (l *AgentLoom) RegisterWorkflow(cfg workflow.WorkflowConfig) error {
	if errs := workflow.ValidateWorkflow(cfg, l.directory.Names()); len(errs) > 0 {
		return errs[0]
	}
	return l.registry.RegisterWorkflow(cfg)
}

// Run starts an asynchronous run of a registered workflow and returns the run
// ID together with its event stream. The stream closes after the terminal
// event; failures inside the run surface as error events, not as a returned
// error.
func (l *AgentLoom) Run(ctx context.Context, workflowName, userID, input string) (string, <-chan core.Event, error) {
	cfg, err := l.registry.Workflow(workflowName)
	if err != nil {
		return "", nil, err
	}
	runID, events := l.dispatcher.Run(ctx, cfg, userID, input)
	return runID, events, nil
}

// RunSync is a synchronous helper that drains the event stream and returns
// all events in emission order.
func (l *AgentLoom) RunSync(ctx context.Context, workflowName, userID, input string) (string, []core.Event, error) {
	runID, stream, err := l.Run(ctx, workflowName, userID, input)
	if err != nil {
		return "", nil, err
	}

	var events []core.Event
	for {
		select {
		case <-ctx.Done():
			// Context cancelled, return events collected so far.
			return runID, events, ctx.Err()
		case ev, ok := <-stream:
			if !ok {
				return runID, events, nil
			}
			events = append(events, ev)
		}
	}
}

// Cancel aborts a running workflow by run ID.
func (l *AgentLoom) Cancel(runID string) error {
	return l.dispatcher.Cancel(runID)
}
