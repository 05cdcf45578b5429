package orchestrate

import (
	"context"
	"testing"
	"time"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_UnsupportedPattern(t *testing.T) {
	dir := newFakeDirectory()
	dir.addEcho("a")

	wf := workflow.NewWorkflowBuilder("wf", workflow.PatternDebate).
		AddAgent("a").Build()

	_, stream := NewDispatcher(dir).Run(context.Background(), wf, "user-1", "topic")
	events := collect(stream)

	require.Len(t, events, 1)
	assert.Equal(t, core.EventError, events[0].Kind)
	assert.Equal(t, "Orchestration pattern 'debate' not supported", events[0].Payload)
	assert.Zero(t, dir.lookupCount(), "no strategy work may happen for an unsupported pattern")
}

func TestDispatcher_RunsAreIndependentAndDeterministic(t *testing.T) {
	dir := newFakeDirectory()
	dir.addEcho("a")
	dir.addEcho("b")

	wf := workflow.NewWorkflowBuilder("pipeline", workflow.PatternSequential).
		AddAgents("a", "b").Build()

	disp := NewDispatcher(dir)

	run1, stream1 := disp.Run(context.Background(), wf, "user-1", "topic")
	first := collect(stream1)
	run2, stream2 := disp.Run(context.Background(), wf, "user-1", "topic")
	second := collect(stream2)

	assert.NotEqual(t, run1, run2)
	assert.Equal(t, shapes(first), shapes(second))

	for i := range first {
		assert.Equal(t, run1, first[i].RunID)
		assert.Equal(t, run2, second[i].RunID)
		assert.Equal(t, first[i].Seq, second[i].Seq)
	}
}

func TestDispatcher_ConcurrentRuns(t *testing.T) {
	dir := newFakeDirectory()
	dir.addEcho("a")

	wf := workflow.NewWorkflowBuilder("pipeline", workflow.PatternSequential).
		AddAgent("a").Build()

	disp := NewDispatcher(dir)

	const n = 8
	results := make(chan []core.Event, n)
	for i := 0; i < n; i++ {
		go func() {
			_, stream := disp.Run(context.Background(), wf, "user-1", "topic")
			results <- collect(stream)
		}()
	}
	for i := 0; i < n; i++ {
		events := <-results
		require.NotEmpty(t, events)
		assert.Equal(t, core.EventFinal, events[len(events)-1].Kind)
	}
	assert.Zero(t, disp.ActiveRuns())
}

func TestDispatcher_CancelReleasesBlockedInvocation(t *testing.T) {
	dir := newFakeDirectory()
	released := make(chan struct{})
	dir.add("stuck", func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		close(released)
		return "", ctx.Err()
	})

	wf := workflow.NewWorkflowBuilder("pipeline", workflow.PatternSequential).
		AddAgent("stuck").Build()

	disp := NewDispatcher(dir, WithEventBufferSize(8))
	runID, stream := disp.Run(context.Background(), wf, "user-1", "topic")

	// Let the run reach the blocked invocation, then cancel it.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, disp.Cancel(runID))

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("cancellation did not release the outstanding invocation")
	}

	events := collect(stream)
	for _, ev := range events {
		assert.NotEqual(t, core.EventFinal, ev.Kind, "a cancelled run must not report success")
	}
}

func TestDispatcher_CancelUnknownRun(t *testing.T) {
	disp := NewDispatcher(newFakeDirectory())
	assert.Error(t, disp.Cancel("nope"))
}

func TestDispatcher_AbandonedConsumerStopsProducer(t *testing.T) {
	dir := newFakeDirectory()
	invocations := make(chan string, 10)
	for _, name := range []string{"a", "b", "c"} {
		dir.add(name, func(_ context.Context, input string) (string, error) {
			invocations <- name
			return input, nil
		})
	}

	wf := workflow.NewWorkflowBuilder("pipeline", workflow.PatternSequential).
		AddAgents("a", "b", "c").Build()

	ctx, cancel := context.WithCancel(context.Background())
	_, stream := NewDispatcher(dir).Run(ctx, wf, "user-1", "topic")

	// Consume the first event, then walk away.
	<-stream
	cancel()

	// The channel must close without the consumer draining it.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-stream:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream did not close after the consumer cancelled")
		}
	}
}

func TestDispatcher_InvokeTimeoutSurfacesAsWarning(t *testing.T) {
	dir := newFakeDirectory()
	dir.add("slow", func(ctx context.Context, _ string) (string, error) {
		select {
		case <-time.After(time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	dir.addEcho("fast")

	wf := workflow.NewWorkflowBuilder("pipeline", workflow.PatternSequential).
		AddAgents("slow", "fast").Build()

	disp := NewDispatcher(dir, WithInvokeTimeout(20*time.Millisecond))
	_, stream := disp.Run(context.Background(), wf, "user-1", "topic")
	events := collect(stream)

	assert.Equal(t, []core.EventKind{
		core.EventProgress, core.EventWarning, // slow timed out
		core.EventProgress, core.EventPartial, // fast still ran
		core.EventFinal,
	}, kinds(events))
	assert.Contains(t, events[1].Payload, "Agent slow failed")
	assert.Contains(t, events[1].Payload, context.DeadlineExceeded.Error())
}

func TestDynamic_DelegatesPerRun(t *testing.T) {
	dir := newFakeDirectory()
	dir.addEcho("a")

	dyn := NewDynamic(dir, Config{})

	for _, pattern := range []workflow.Pattern{workflow.PatternSequential, workflow.PatternParallel} {
		wf := workflow.NewWorkflowBuilder("wf", pattern).AddAgent("a").Build()

		events := make(chan core.Event, 16)
		rc := core.NewRunContext(context.Background(), core.NewID(), "user-1", "x", events, nil)
		require.NoError(t, dyn.Process(rc, wf))
		close(events)

		collected := collect(events)
		assert.Equal(t, core.EventFinal, collected[len(collected)-1].Kind)
	}
}
