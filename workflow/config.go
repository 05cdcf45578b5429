package workflow

import (
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Role categorizes what an agent is for. Roles are advisory metadata; the
// orchestration layer treats all agents uniformly.
type Role string

const (
	RolePlanner     Role = "planner"
	RoleExecutor    Role = "executor"
	RoleCritic      Role = "critic"
	RoleResearcher  Role = "researcher"
	RoleWriter      Role = "writer"
	RoleAnalyzer    Role = "analyzer"
	RoleCoordinator Role = "coordinator"
	RoleCustom      Role = "custom"
)

// Roles lists all known roles.
func Roles() []Role {
	return []Role{
		RolePlanner, RoleExecutor, RoleCritic, RoleResearcher,
		RoleWriter, RoleAnalyzer, RoleCoordinator, RoleCustom,
	}
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool { return slices.Contains(Roles(), r) }

// Pattern identifies a coordination topology. The configuration vocabulary is
// wider than what the orchestration layer implements: debate, planner_executor
// and reasoner may appear in stored workflows but have no registered strategy
// and surface as an unsupported-pattern error at run time.
type Pattern string

const (
	PatternSequential      Pattern = "sequential"
	PatternParallel        Pattern = "parallel"
	PatternHierarchical    Pattern = "hierarchical"
	PatternDebate          Pattern = "debate"
	PatternPlannerExecutor Pattern = "planner_executor"
	PatternReasoner        Pattern = "reasoner"
)

// Patterns lists every pattern the configuration layer accepts.
func Patterns() []Pattern {
	return []Pattern{
		PatternSequential, PatternParallel, PatternHierarchical,
		PatternDebate, PatternPlannerExecutor, PatternReasoner,
	}
}

// Valid reports whether the pattern is part of the configuration vocabulary.
func (p Pattern) Valid() bool { return slices.Contains(Patterns(), p) }

// AgentConfig describes a single named agent.
type AgentConfig struct {
	Name         string         `yaml:"name" json:"name"`
	Role         Role           `yaml:"role" json:"role"`
	Description  string         `yaml:"description" json:"description"`
	Instructions string         `yaml:"instructions" json:"instructions"`
	ModelID      string         `yaml:"model_id,omitempty" json:"model_id,omitempty"`
	Temperature  float64        `yaml:"temperature" json:"temperature"`
	MaxTokens    int            `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	Tools        []string       `yaml:"tools" json:"tools"`
	Metadata     map[string]any `yaml:"metadata" json:"metadata"`
}

// NewAgentConfig returns an agent config with defaults applied.
func NewAgentConfig(name string, role Role) AgentConfig {
	return AgentConfig{
		Name:        name,
		Role:        role,
		Temperature: defaultTemperature,
		Tools:       []string{},
		Metadata:    map[string]any{},
	}
}

const (
	defaultTemperature   = 0.7
	defaultMaxIterations = 10
)

// Clone returns a deep copy.
func (c AgentConfig) Clone() AgentConfig {
	c.Tools = slices.Clone(c.Tools)
	c.Metadata = maps.Clone(c.Metadata)
	return c
}

// ParseAgent deserializes an agent config from YAML, applying the same
// defaults for absent keys that the builder does.
func ParseAgent(data []byte) (AgentConfig, error) {
	cfg := NewAgentConfig("", RoleCustom)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AgentConfig{}, fmt.Errorf("failed to parse agent config: %w", err)
	}
	if cfg.Name == "" {
		return AgentConfig{}, fmt.Errorf("agent config is missing a name")
	}
	if cfg.Tools == nil {
		cfg.Tools = []string{}
	}
	if cfg.Metadata == nil {
		cfg.Metadata = map[string]any{}
	}
	return cfg, nil
}

// EncodeAgent serializes an agent config to YAML.
func EncodeAgent(cfg AgentConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WorkflowConfig describes a named workflow: a coordination pattern plus an
// ordered list of agent names. The agent list may reference names absent from
// the Agent Directory at run time; that is a per-agent runtime condition, not
// a configuration error.
type WorkflowConfig struct {
	Name                 string         `yaml:"name" json:"name"`
	Description          string         `yaml:"description" json:"description"`
	Pattern              Pattern        `yaml:"pattern" json:"pattern"`
	Agents               []string       `yaml:"agents" json:"agents"`
	TerminationCondition string         `yaml:"termination_condition,omitempty" json:"termination_condition,omitempty"`
	MaxIterations        int            `yaml:"max_iterations" json:"max_iterations"`
	Metadata             map[string]any `yaml:"metadata" json:"metadata"`
}

// NewWorkflowConfig returns a workflow config with defaults applied.
func NewWorkflowConfig(name string, pattern Pattern) WorkflowConfig {
	return WorkflowConfig{
		Name:          name,
		Pattern:       pattern,
		Agents:        []string{},
		MaxIterations: defaultMaxIterations,
		Metadata:      map[string]any{},
	}
}

// Clone returns a deep copy.
func (c WorkflowConfig) Clone() WorkflowConfig {
	c.Agents = slices.Clone(c.Agents)
	c.Metadata = maps.Clone(c.Metadata)
	return c
}

// ParseWorkflow deserializes a workflow config from YAML, applying defaults
// for absent keys.
func ParseWorkflow(data []byte) (WorkflowConfig, error) {
	cfg := NewWorkflowConfig("", "")
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return WorkflowConfig{}, fmt.Errorf("failed to parse workflow config: %w", err)
	}
	if cfg.Name == "" {
		return WorkflowConfig{}, fmt.Errorf("workflow config is missing a name")
	}
	if cfg.Agents == nil {
		cfg.Agents = []string{}
	}
	if cfg.Metadata == nil {
		cfg.Metadata = map[string]any{}
	}
	return cfg, nil
}

// EncodeWorkflow serializes a workflow config to YAML.
func EncodeWorkflow(cfg WorkflowConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}
