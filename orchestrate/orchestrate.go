package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/workflow"
)

// ErrUnsupportedPattern is returned by NewStrategy when a workflow's pattern
// has no registered strategy constructor.
var ErrUnsupportedPattern = errors.New("unsupported orchestration pattern")

// Config carries the knobs shared by all strategies.
type Config struct {
	// InvokeTimeout bounds each individual Handle.Invoke call. Zero means no
	// timeout. Expiry surfaces as a warning event; the run continues.
	InvokeTimeout time.Duration
}

// Strategy implements one coordination pattern's execution semantics. Process
// drives the workflow's agents and emits events through the run context until
// the run terminates with a final or error event. The returned error is only
// non-nil when emission fails, which happens exactly when the run context is
// cancelled; domain failures become stream events instead.
type Strategy interface {
	Pattern() workflow.Pattern
	Process(rc *core.RunContext) error
}

// Constructor builds a strategy bound to a directory and workflow definition.
type Constructor func(dir core.Directory, wf workflow.WorkflowConfig, cfg Config) Strategy

// constructors is the static registration table mapping runnable patterns to
// their strategies. Patterns in the configuration vocabulary but absent here
// (debate, planner_executor, reasoner) surface as ErrUnsupportedPattern.
var constructors = map[workflow.Pattern]Constructor{
	workflow.PatternSequential:   newSequential,
	workflow.PatternParallel:     newParallel,
	workflow.PatternHierarchical: newHierarchical,
}

// NewStrategy selects the strategy for a pattern. The directory is not
// touched here; an unsupported pattern fails before any lookup happens.
func NewStrategy(pattern workflow.Pattern, dir core.Directory, wf workflow.WorkflowConfig, cfg Config) (Strategy, error) {
	ctor, ok := constructors[pattern]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPattern, pattern)
	}
	return ctor(dir, wf, cfg), nil
}

// RunnablePatterns lists the patterns with a registered strategy, in a
// stable order.
func RunnablePatterns() []workflow.Pattern {
	return []workflow.Pattern{
		workflow.PatternSequential,
		workflow.PatternParallel,
		workflow.PatternHierarchical,
	}
}

// base holds the collaborators every strategy needs.
type base struct {
	directory core.Directory
	workflow  workflow.WorkflowConfig
	config    Config
}

// invoke runs a handle under the configured per-invocation timeout,
// converting panics into errors so a faulty handle cannot crash the run or
// disturb concurrent runs.
func (b base) invoke(ctx context.Context, h core.Handle, input string) (out string, err error) {
	if b.config.InvokeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.InvokeTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent handle panicked: %v", r)
		}
	}()
	return h.Invoke(ctx, input)
}
