// Package server exposes the agent registry and the orchestration dispatcher
// over HTTP: CRUD for agents, workflows and templates, plus run endpoints
// that stream orchestration events live - one JSON object per line over plain
// HTTP, or one message per event over a WebSocket for the chat UI.
//
// The server is thin glue: request decoding, registry calls and status-code
// mapping. All orchestration semantics live in the orchestrate package, and
// a client disconnect cancels the underlying run through the request context.
package server
