package orchestrate

import (
	"fmt"
	"strings"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/workflow"
)

// hierarchicalStrategy treats the first agent as a coordinator and the rest
// as workers. The coordinator announces a delegation plan, each worker is
// invoked with the original input, and the final event carries the
// coordinator's name plus every worker completion notice in order.
//
// A missing or failing worker degrades to a warning and contributes no
// completion notice, mirroring the sequential pipeline's handling. A workflow
// with zero agents terminates with a single error event before any
// coordinator step runs.
type hierarchicalStrategy struct {
	base
}

func newHierarchical(dir core.Directory, wf workflow.WorkflowConfig, cfg Config) Strategy {
	return &hierarchicalStrategy{base{directory: dir, workflow: wf, config: cfg}}
}

// Pattern implements Strategy.
func (h *hierarchicalStrategy) Pattern() workflow.Pattern { return workflow.PatternHierarchical }

// Process implements Strategy.
func (h *hierarchicalStrategy) Process(rc *core.RunContext) error {
	agents := h.workflow.Agents
	rc.Logger.Info("hierarchical orchestration", "run_id", rc.RunID, "user_id", rc.UserID, "agents", len(agents))

	if len(agents) == 0 {
		return rc.Error("", "No agents in workflow")
	}

	coordinator := agents[0]
	workers := agents[1:]

	if err := rc.Progress(coordinator, fmt.Sprintf("Coordinator %s analyzing task...", coordinator)); err != nil {
		return err
	}
	if err := rc.Progress(coordinator, fmt.Sprintf("Plan: Will delegate to %d worker agents", len(workers))); err != nil {
		return err
	}

	var notices []string
	for _, name := range workers {
		if err := rc.Progress(name, fmt.Sprintf("Worker %s executing...", name)); err != nil {
			return err
		}

		handle, ok := h.directory.Lookup(name)
		if !ok {
			if err := rc.Warning(name, fmt.Sprintf("Agent %s not found", name)); err != nil {
				return err
			}
			continue
		}

		out, err := h.invoke(rc.Context, handle, rc.Input)
		if err != nil {
			if werr := rc.Warning(name, fmt.Sprintf("Agent %s failed: %v", name, err)); werr != nil {
				return werr
			}
			continue
		}

		notice := fmt.Sprintf("[%s]: %s", name, out)
		notices = append(notices, notice)
		if err := rc.Partial(name, notice); err != nil {
			return err
		}
	}

	if err := rc.Progress(coordinator, fmt.Sprintf("Coordinator %s synthesizing results...", coordinator)); err != nil {
		return err
	}

	final := fmt.Sprintf("Coordinator %s final output:\n%s", coordinator, strings.Join(notices, "\n"))
	return rc.Final(coordinator, final)
}
