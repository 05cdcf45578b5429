package workflow

// AgentBuilder assembles an AgentConfig through a fluent interface.
//
//	cfg, err := workflow.NewAgentBuilder("critic", workflow.RoleCritic).
//		WithDescription("Reviews drafts").
//		WithInstructions("You are a critic agent...").
//		WithModel("gpt-4o", 0.3).
//		Build()
type AgentBuilder struct {
	cfg AgentConfig
}

// NewAgentBuilder starts building an agent with defaults applied.
func NewAgentBuilder(name string, role Role) *AgentBuilder {
	return &AgentBuilder{cfg: NewAgentConfig(name, role)}
}

// WithDescription sets the agent description.
func (b *AgentBuilder) WithDescription(description string) *AgentBuilder {
	b.cfg.Description = description
	return b
}

// WithInstructions sets the agent instructions.
func (b *AgentBuilder) WithInstructions(instructions string) *AgentBuilder {
	b.cfg.Instructions = instructions
	return b
}

// WithModel sets the model identifier and sampling temperature.
func (b *AgentBuilder) WithModel(modelID string, temperature float64) *AgentBuilder {
	b.cfg.ModelID = modelID
	b.cfg.Temperature = temperature
	return b
}

// WithMaxTokens bounds the agent's output length.
func (b *AgentBuilder) WithMaxTokens(maxTokens int) *AgentBuilder {
	b.cfg.MaxTokens = maxTokens
	return b
}

// WithTools appends tool names to the agent.
func (b *AgentBuilder) WithTools(tools ...string) *AgentBuilder {
	b.cfg.Tools = append(b.cfg.Tools, tools...)
	return b
}

// WithMetadata sets a metadata key.
func (b *AgentBuilder) WithMetadata(key string, value any) *AgentBuilder {
	b.cfg.Metadata[key] = value
	return b
}

// Build returns the assembled config. Validation is a separate concern; see
// ValidateAgent.
func (b *AgentBuilder) Build() AgentConfig {
	return b.cfg.Clone()
}

// WorkflowBuilder assembles a WorkflowConfig through a fluent interface.
type WorkflowBuilder struct {
	cfg WorkflowConfig
}

// NewWorkflowBuilder starts building a workflow with defaults applied.
func NewWorkflowBuilder(name string, pattern Pattern) *WorkflowBuilder {
	return &WorkflowBuilder{cfg: NewWorkflowConfig(name, pattern)}
}

// WithDescription sets the workflow description.
func (b *WorkflowBuilder) WithDescription(description string) *WorkflowBuilder {
	b.cfg.Description = description
	return b
}

// AddAgent appends one agent name to the ordered list.
func (b *WorkflowBuilder) AddAgent(name string) *WorkflowBuilder {
	b.cfg.Agents = append(b.cfg.Agents, name)
	return b
}

// AddAgents appends agent names preserving order.
func (b *WorkflowBuilder) AddAgents(names ...string) *WorkflowBuilder {
	b.cfg.Agents = append(b.cfg.Agents, names...)
	return b
}

// WithTermination sets the termination condition predicate text.
func (b *WorkflowBuilder) WithTermination(condition string) *WorkflowBuilder {
	b.cfg.TerminationCondition = condition
	return b
}

// WithMaxIterations sets the iteration bound.
func (b *WorkflowBuilder) WithMaxIterations(n int) *WorkflowBuilder {
	b.cfg.MaxIterations = n
	return b
}

// WithMetadata sets a metadata key.
func (b *WorkflowBuilder) WithMetadata(key string, value any) *WorkflowBuilder {
	b.cfg.Metadata[key] = value
	return b
}

// Build returns the assembled config.
func (b *WorkflowBuilder) Build() WorkflowConfig {
	return b.cfg.Clone()
}
