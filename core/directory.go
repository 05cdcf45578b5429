package core

import "context"

// Handle is an opaque capability to produce output for an input. Handles are
// owned and supplied by the Agent Directory; orchestration strategies only
// borrow them for the duration of a single invocation.
//
// Invoke may involve network or model latency. Implementations must honor
// context cancellation so an abandoned run does not leave orphaned work
// behind. A returned error is converted by the calling strategy into a
// warning or error stream event; it never crashes a run.
type Handle interface {
	Invoke(ctx context.Context, input string) (string, error)
}

// HandleFunc adapts an ordinary function to the Handle interface.
type HandleFunc func(ctx context.Context, input string) (string, error)

// Invoke implements Handle.
func (f HandleFunc) Invoke(ctx context.Context, input string) (string, error) {
	return f(ctx, input)
}

// Directory is the read-only lookup service mapping agent names to handles.
// It is populated independently of workflow definitions, so a workflow may
// reference names that are absent at run time; absence is a per-agent runtime
// condition, not a definition error. Implementations must be safe for
// concurrent lookups from multiple runs.
type Directory interface {
	Lookup(name string) (Handle, bool)
}
