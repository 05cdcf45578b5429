package orchestrate

import (
	"fmt"
	"strings"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/workflow"
)

// parallelStrategy feeds every listed agent the same original input and
// aggregates the results.
//
// Invocations run concurrently, one goroutine per agent, but emission and
// aggregation stay in the workflow's declared agent order regardless of
// completion order, so the stream and the aggregate are deterministic for a
// deterministic directory. A missing agent contributes no result slot and no
// warning; that asymmetry with the sequential pipeline is inherited behavior
// kept on purpose (see the project design notes).
type parallelStrategy struct {
	base
}

func newParallel(dir core.Directory, wf workflow.WorkflowConfig, cfg Config) Strategy {
	return &parallelStrategy{base{directory: dir, workflow: wf, config: cfg}}
}

// Pattern implements Strategy.
func (p *parallelStrategy) Pattern() workflow.Pattern { return workflow.PatternParallel }

// slot collects one agent's outcome. done is closed once out/err are set.
type slot struct {
	handle core.Handle
	found  bool
	out    string
	err    error
	done   chan struct{}
}

// Process implements Strategy.
func (p *parallelStrategy) Process(rc *core.RunContext) error {
	agents := p.workflow.Agents
	rc.Logger.Info("parallel orchestration", "run_id", rc.RunID, "user_id", rc.UserID, "agents", len(agents))

	// Fan out. Lookups happen once, up front, in declared order.
	slots := make([]*slot, len(agents))
	for i, name := range agents {
		s := &slot{done: make(chan struct{})}
		slots[i] = s
		s.handle, s.found = p.directory.Lookup(name)
		if !s.found {
			close(s.done)
			continue
		}
		go func(s *slot) {
			defer close(s.done)
			s.out, s.err = p.invoke(rc.Context, s.handle, rc.Input)
		}(s)
	}

	// Emit and aggregate in declared order, waiting on each slot in turn.
	var results []string
	for i, name := range agents {
		if err := rc.Progress(name, fmt.Sprintf("Agent %s starting...", name)); err != nil {
			return err
		}

		s := slots[i]
		if !s.found {
			continue
		}

		select {
		case <-s.done:
		case <-rc.Done():
			return rc.Context.Err()
		}

		if s.err != nil {
			if werr := rc.Warning(name, fmt.Sprintf("Agent %s failed: %v", name, s.err)); werr != nil {
				return werr
			}
			continue
		}

		results = append(results, s.out)
		if err := rc.Partial(name, s.out); err != nil {
			return err
		}
	}

	if err := rc.Progress("", "Aggregating results..."); err != nil {
		return err
	}
	return rc.Final("", strings.Join(results, "\n\n"))
}
