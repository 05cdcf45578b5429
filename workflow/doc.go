// Package workflow defines the configuration value types for agents and
// workflows: roles, coordination patterns, fluent builders, validation rules
// and predefined agent templates.
//
// The types here are plain data. They carry no runtime behavior beyond YAML
// round-tripping; execution semantics live in the orchestrate package and
// persistence in the registry package. A WorkflowConfig is immutable from the
// dispatcher's perspective once a run starts.
package workflow
