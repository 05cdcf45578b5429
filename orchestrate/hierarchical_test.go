package orchestrate

import (
	"context"
	"errors"
	"testing"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchical_CoordinatorAndWorkers(t *testing.T) {
	dir := newFakeDirectory()
	dir.addEcho("coord")
	dir.addEcho("w1")
	dir.addEcho("w2")

	wf := workflow.NewWorkflowBuilder("team", workflow.PatternHierarchical).
		AddAgents("coord", "w1", "w2").Build()

	_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "topic")
	events := collect(stream)

	assert.Equal(t, []core.EventKind{
		core.EventProgress, core.EventProgress, // analyzing, plan
		core.EventProgress, core.EventPartial, // w1
		core.EventProgress, core.EventPartial, // w2
		core.EventProgress, // synthesizing
		core.EventFinal,
	}, kinds(events))

	assert.Equal(t, "Coordinator coord analyzing task...", events[0].Payload)
	assert.Equal(t, "Plan: Will delegate to 2 worker agents", events[1].Payload)

	final := events[len(events)-1]
	assert.Equal(t, "coord", final.SourceAgent)
	assert.Contains(t, final.Payload, "Coordinator coord final output:")
	assert.Contains(t, final.Payload, "w1")
	assert.Contains(t, final.Payload, "w2")
}

func TestHierarchical_ZeroAgents(t *testing.T) {
	dir := newFakeDirectory()
	wf := workflow.NewWorkflowBuilder("team", workflow.PatternHierarchical).Build()

	_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "topic")
	events := collect(stream)

	require.Len(t, events, 1)
	assert.Equal(t, core.EventError, events[0].Kind)
	assert.Equal(t, "No agents in workflow", events[0].Payload)
	assert.Zero(t, dir.lookupCount())
}

func TestHierarchical_CoordinatorOnly(t *testing.T) {
	dir := newFakeDirectory()
	dir.addEcho("coord")

	wf := workflow.NewWorkflowBuilder("team", workflow.PatternHierarchical).
		AddAgent("coord").Build()

	_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "topic")
	events := collect(stream)

	assert.Equal(t, []core.EventKind{
		core.EventProgress, core.EventProgress, core.EventProgress, core.EventFinal,
	}, kinds(events))
	assert.Equal(t, "Plan: Will delegate to 0 worker agents", events[1].Payload)
}

func TestHierarchical_MissingWorkerWarnsAndContinues(t *testing.T) {
	dir := newFakeDirectory()
	dir.addEcho("w2")

	wf := workflow.NewWorkflowBuilder("team", workflow.PatternHierarchical).
		AddAgents("coord", "ghost", "w2").Build()

	_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "topic")
	events := collect(stream)

	assert.Equal(t, []core.EventKind{
		core.EventProgress, core.EventProgress,
		core.EventProgress, core.EventWarning, // ghost
		core.EventProgress, core.EventPartial, // w2
		core.EventProgress,
		core.EventFinal,
	}, kinds(events))

	assert.Equal(t, "Agent ghost not found", events[3].Payload)

	final := events[len(events)-1]
	assert.NotContains(t, final.Payload, "ghost")
	assert.Contains(t, final.Payload, "[w2]: [w2]: Processed - topic")
}

func TestHierarchical_WorkerFailureWarnsAndContinues(t *testing.T) {
	dir := newFakeDirectory()
	dir.add("w1", func(context.Context, string) (string, error) {
		return "", errors.New("model unavailable")
	})
	dir.addEcho("w2")

	wf := workflow.NewWorkflowBuilder("team", workflow.PatternHierarchical).
		AddAgents("coord", "w1", "w2").Build()

	_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "topic")
	events := collect(stream)

	var warnings int
	for _, ev := range events {
		if ev.Kind == core.EventWarning {
			warnings++
			assert.Contains(t, ev.Payload, "Agent w1 failed")
		}
	}
	assert.Equal(t, 1, warnings)

	final := events[len(events)-1]
	assert.Equal(t, core.EventFinal, final.Kind)
	assert.NotContains(t, final.Payload, "[w1]")
	assert.Contains(t, final.Payload, "[w2]")
}
