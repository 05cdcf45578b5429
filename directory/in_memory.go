package directory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/agentloom/agentloom/core"
)

// InMemory is a process-local Directory implementation storing handles in a
// map. It is safe for concurrent lookups from multiple runs; registration and
// removal may happen while runs are in flight; each orchestration pattern
// decides how to treat a name that is absent at invocation time.
type InMemory struct {
	mu      sync.RWMutex
	handles map[string]core.Handle
}

// NewInMemory constructs an empty in-memory directory.
func NewInMemory() *InMemory {
	return &InMemory{handles: make(map[string]core.Handle)}
}

// Register adds or replaces the handle for a name.
func (d *InMemory) Register(name string, h core.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handles[name] = h
}

// Remove deletes the handle for a name, reporting whether it existed.
func (d *InMemory) Remove(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.handles[name]
	delete(d.handles, name)
	return ok
}

// Lookup implements core.Directory.
func (d *InMemory) Lookup(name string) (core.Handle, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.handles[name]
	return h, ok
}

// Names lists registered agent names in sorted order.
func (d *InMemory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Sorted(maps.Keys(d.handles))
}

// Echo returns a deterministic handle that tags its input with the agent
// name. It stands in for real model output in demos, evaluation scenarios and
// tests.
func Echo(name string) core.Handle {
	return core.HandleFunc(func(_ context.Context, input string) (string, error) {
		return fmt.Sprintf("[%s]: Processed - %s", name, input), nil
	})
}
