// Package orchestrate implements the coordination patterns that drive a
// workflow's agents and the dispatcher that owns the resulting event stream.
//
// The package centers on three concerns:
//
//  1. Pattern strategies (sequential pipeline, parallel fan-out/aggregate,
//     hierarchical coordinator/worker), each consuming the Agent Directory
//     plus a workflow definition and emitting an ordered stream of events
//  2. A registration table keyed by pattern so an unsupported pattern is a
//     data-driven lookup miss, not a dispatch failure
//  3. The Dispatcher, which selects a strategy per run and manages the event
//     channel lifecycle, including cancellation
//
// Execution model: one goroutine produces a run's events; the consumer pulls
// them from a channel with backpressure. Every failure inside a run resolves
// to a stream event - missing agents and failed invocations degrade to
// warnings, unsupported patterns and empty hierarchical workflows terminate
// with a single error event. Nothing panics or errors past the Dispatcher
// boundary, so concurrent runs never disturb each other.
package orchestrate
