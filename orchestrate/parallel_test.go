package orchestrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallel_AggregatesInDescriptorOrder(t *testing.T) {
	dir := newFakeDirectory()
	dir.addEcho("a")
	dir.addEcho("b")
	dir.addEcho("c")

	wf := workflow.NewWorkflowBuilder("fanout", workflow.PatternParallel).
		AddAgents("a", "b", "c").Build()

	_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "topic")
	events := collect(stream)

	final := events[len(events)-1]
	require.Equal(t, core.EventFinal, final.Kind)
	assert.Equal(t,
		"[a]: Processed - topic\n\n[b]: Processed - topic\n\n[c]: Processed - topic",
		final.Payload)

	// Aggregation is announced before the final event.
	aggregating := events[len(events)-2]
	assert.Equal(t, core.EventProgress, aggregating.Kind)
	assert.Equal(t, "Aggregating results...", aggregating.Payload)
}

func TestParallel_AllAgentsReceiveOriginalInput(t *testing.T) {
	dir := newFakeDirectory()
	inputs := make(chan string, 2)
	record := func(name string) func(context.Context, string) (string, error) {
		return func(_ context.Context, input string) (string, error) {
			inputs <- input
			return name + " done", nil
		}
	}
	dir.add("a", record("a"))
	dir.add("b", record("b"))

	wf := workflow.NewWorkflowBuilder("fanout", workflow.PatternParallel).
		AddAgents("a", "b").Build()

	_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "original")
	collect(stream)
	close(inputs)

	for input := range inputs {
		assert.Equal(t, "original", input, "fan-out must not chain outputs")
	}
}

func TestParallel_DeterministicUnderLatencyPermutations(t *testing.T) {
	// Permute simulated latencies across the agents; the stream and the
	// aggregate must not change, because emission and aggregation follow the
	// descriptor's order, not completion order.
	latencies := [][3]time.Duration{
		{0, 10 * time.Millisecond, 20 * time.Millisecond},
		{20 * time.Millisecond, 10 * time.Millisecond, 0},
		{10 * time.Millisecond, 0, 20 * time.Millisecond},
		{0, 0, 0},
	}

	var reference []shape
	for _, perm := range latencies {
		dir := newFakeDirectory()
		for i, name := range []string{"a", "b", "c"} {
			delay := perm[i]
			result := "[" + name + "]: done"
			dir.add(name, func(ctx context.Context, _ string) (string, error) {
				select {
				case <-time.After(delay):
					return result, nil
				case <-ctx.Done():
					return "", ctx.Err()
				}
			})
		}

		wf := workflow.NewWorkflowBuilder("fanout", workflow.PatternParallel).
			AddAgents("a", "b", "c").Build()

		_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "x")
		got := shapes(collect(stream))

		if reference == nil {
			reference = got
			final := got[len(got)-1]
			assert.Equal(t, "[a]: done\n\n[b]: done\n\n[c]: done", final.Payload)
			continue
		}
		assert.Equal(t, reference, got, "latency permutation changed the stream")
	}
}

func TestParallel_MissingAgentSilentlyOmitted(t *testing.T) {
	dir := newFakeDirectory()
	dir.addEcho("a")
	dir.addEcho("c")

	wf := workflow.NewWorkflowBuilder("fanout", workflow.PatternParallel).
		AddAgents("a", "ghost", "c").Build()

	_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "topic")
	events := collect(stream)

	// The missing agent still gets its starting announcement but contributes
	// neither a warning nor a result slot.
	assert.Equal(t, []core.EventKind{
		core.EventProgress, core.EventPartial, // a
		core.EventProgress, // ghost
		core.EventProgress, core.EventPartial, // c
		core.EventProgress, // aggregating
		core.EventFinal,
	}, kinds(events))

	final := events[len(events)-1]
	assert.Equal(t, "[a]: Processed - topic\n\n[c]: Processed - topic", final.Payload)
}

func TestParallel_InvocationFailureWarnsAndOmits(t *testing.T) {
	dir := newFakeDirectory()
	dir.addEcho("a")
	dir.add("broken", func(context.Context, string) (string, error) {
		return "", errors.New("model unavailable")
	})

	wf := workflow.NewWorkflowBuilder("fanout", workflow.PatternParallel).
		AddAgents("a", "broken").Build()

	_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "topic")
	events := collect(stream)

	var warnings []core.Event
	for _, ev := range events {
		if ev.Kind == core.EventWarning {
			warnings = append(warnings, ev)
		}
	}
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Payload, "Agent broken failed")

	final := events[len(events)-1]
	assert.Equal(t, "[a]: Processed - topic", final.Payload)
}

func TestParallel_EmptyAgentList(t *testing.T) {
	dir := newFakeDirectory()
	wf := workflow.NewWorkflowBuilder("fanout", workflow.PatternParallel).Build()

	_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "x")
	events := collect(stream)

	require.Len(t, events, 2)
	assert.Equal(t, core.EventProgress, events[0].Kind)
	assert.Equal(t, core.EventFinal, events[1].Kind)
	assert.Empty(t, events[1].Payload)
}
