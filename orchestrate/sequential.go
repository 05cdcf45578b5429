package orchestrate

import (
	"fmt"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/workflow"
)

// sequentialStrategy treats the workflow's agent list as a pipeline: each
// agent's output becomes the next agent's input.
//
// A missing or failing agent degrades to a warning and leaves the running
// content unchanged; the pipeline does not abort. Degraded-but-complete
// output is preferred over aborting the run. An empty agent list emits only
// the final completion event.
type sequentialStrategy struct {
	base
}

func newSequential(dir core.Directory, wf workflow.WorkflowConfig, cfg Config) Strategy {
	return &sequentialStrategy{base{directory: dir, workflow: wf, config: cfg}}
}

// Pattern implements Strategy.
func (s *sequentialStrategy) Pattern() workflow.Pattern { return workflow.PatternSequential }

// Process implements Strategy.
func (s *sequentialStrategy) Process(rc *core.RunContext) error {
	rc.Logger.Info("sequential orchestration", "run_id", rc.RunID, "user_id", rc.UserID, "agents", len(s.workflow.Agents))

	content := rc.Input

	for _, name := range s.workflow.Agents {
		if err := rc.Progress(name, fmt.Sprintf("Agent %s processing...", name)); err != nil {
			return err
		}

		handle, ok := s.directory.Lookup(name)
		if !ok {
			if err := rc.Warning(name, fmt.Sprintf("Agent %s not found", name)); err != nil {
				return err
			}
			continue
		}

		out, err := s.invoke(rc.Context, handle, content)
		if err != nil {
			if werr := rc.Warning(name, fmt.Sprintf("Agent %s failed: %v", name, err)); werr != nil {
				return werr
			}
			continue
		}

		if err := rc.Partial(name, out); err != nil {
			return err
		}
		content = out
	}

	return rc.Final("", "Sequential processing complete")
}
