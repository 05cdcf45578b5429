// Package core provides the foundational domain types, interfaces and execution
// contexts used by AgentLoom. It defines the core abstractions for:
//
//   - Events (immutable, ordered progress/result records streamed to consumers)
//   - The Agent Directory contract (name -> invocable handle lookup)
//   - RunContext (scoped per-run state and event emission)
//
// The package intentionally keeps implementation concerns (persistence,
// dispatch, concrete strategies) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core
