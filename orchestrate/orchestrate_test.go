package orchestrate

import (
	"context"
	"sync"
	"testing"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectory records every lookup so tests can assert the directory was or
// was not queried.
type fakeDirectory struct {
	mu      sync.Mutex
	handles map[string]core.Handle
	lookups []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{handles: make(map[string]core.Handle)}
}

func (d *fakeDirectory) add(name string, fn func(ctx context.Context, input string) (string, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handles[name] = core.HandleFunc(fn)
}

func (d *fakeDirectory) addEcho(name string) {
	d.add(name, func(_ context.Context, input string) (string, error) {
		return "[" + name + "]: Processed - " + input, nil
	})
}

func (d *fakeDirectory) Lookup(name string) (core.Handle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups = append(d.lookups, name)
	h, ok := d.handles[name]
	return h, ok
}

func (d *fakeDirectory) lookupCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lookups)
}

// collect drains a run's event stream to completion.
func collect(events <-chan core.Event) []core.Event {
	var out []core.Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

// shape strips per-run identifiers so two streams can be compared structurally.
type shape struct {
	Kind    core.EventKind
	Source  string
	Payload string
}

func shapes(events []core.Event) []shape {
	out := make([]shape, 0, len(events))
	for _, ev := range events {
		out = append(out, shape{Kind: ev.Kind, Source: ev.SourceAgent, Payload: ev.Payload})
	}
	return out
}

func kinds(events []core.Event) []core.EventKind {
	out := make([]core.EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestNewStrategy_RunnablePatterns(t *testing.T) {
	dir := newFakeDirectory()
	wf := workflow.NewWorkflowConfig("wf", "")

	for _, pattern := range RunnablePatterns() {
		strat, err := NewStrategy(pattern, dir, wf, Config{})
		require.NoError(t, err)
		assert.Equal(t, pattern, strat.Pattern())
	}
}

func TestNewStrategy_Unsupported(t *testing.T) {
	dir := newFakeDirectory()
	wf := workflow.NewWorkflowConfig("wf", workflow.PatternDebate)

	strat, err := NewStrategy(workflow.PatternDebate, dir, wf, Config{})
	assert.Nil(t, strat)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedPattern)
	assert.Contains(t, err.Error(), "debate")
	assert.Zero(t, dir.lookupCount())
}

func TestRunnablePatterns(t *testing.T) {
	assert.Equal(t, []workflow.Pattern{
		workflow.PatternSequential,
		workflow.PatternParallel,
		workflow.PatternHierarchical,
	}, RunnablePatterns())
}
