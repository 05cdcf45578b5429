package orchestrate

import (
	"fmt"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/workflow"
)

// Dynamic re-selects a concrete strategy on every run, allowing the
// coordination pattern to be chosen at run time rather than fixed at
// workflow-definition time. It performs no logic of its own beyond selection
// and delegation, so the event and error semantics of the selected strategy
// carry through unchanged.
//
// An unsupported pattern yields exactly one error event naming the pattern;
// no strategy is constructed and the directory is never queried.
type Dynamic struct {
	directory core.Directory
	config    Config
}

// NewDynamic builds a dynamic selector over the registered strategies.
func NewDynamic(dir core.Directory, cfg Config) *Dynamic {
	return &Dynamic{directory: dir, config: cfg}
}

// Process selects the strategy for the workflow's pattern and delegates the
// run to it.
func (d *Dynamic) Process(rc *core.RunContext, wf workflow.WorkflowConfig) error {
	strat, err := NewStrategy(wf.Pattern, d.directory, wf, d.config)
	if err != nil {
		rc.Logger.Warn("unsupported orchestration pattern", "run_id", rc.RunID, "pattern", string(wf.Pattern))
		return rc.Error("", fmt.Sprintf("Orchestration pattern '%s' not supported", wf.Pattern))
	}
	return strat.Process(rc)
}
