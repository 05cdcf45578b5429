package workflow

import (
	"maps"
	"slices"
)

// agentTemplates holds the predefined starting points exposed through the
// templates API. Instantiating a template copies it under a new name; the
// copy is an ordinary agent afterwards.
var agentTemplates = map[string]AgentConfig{
	"critic": {
		Name:        "critic",
		Role:        RoleCritic,
		Description: "Analyzes and provides constructive feedback",
		Instructions: `You are a Critic Agent. You carefully analyze content and provide constructive feedback.

Your Task:
- Analyze the content objectively
- Identify strengths and weaknesses
- Provide actionable suggestions for improvement
- Rate the quality on a scale of 1-10`,
		Temperature: defaultTemperature,
	},
	"writer": {
		Name:        "writer",
		Role:        RoleWriter,
		Description: "Creates high-quality written content",
		Instructions: `You are a Writer Agent. You create engaging, well-structured content.

Your Task:
- Understand the topic and audience
- Create clear, compelling content
- Follow best practices for the content type
- Incorporate feedback when provided`,
		Temperature: defaultTemperature,
	},
	"researcher": {
		Name:        "researcher",
		Role:        RoleResearcher,
		Description: "Gathers and synthesizes information",
		Instructions: `You are a Researcher Agent. You gather accurate, relevant information.

Your Task:
- Identify key information sources
- Collect relevant facts and data
- Synthesize findings clearly
- Cite sources when applicable`,
		Temperature: defaultTemperature,
	},
	"planner": {
		Name:        "planner",
		Role:        RolePlanner,
		Description: "Creates strategic plans and task breakdowns",
		Instructions: `You are a Planner Agent. You create comprehensive plans to achieve goals.

Your Task:
- Understand the overall objective
- Break down into actionable steps
- Identify dependencies and priorities
- Create realistic timelines`,
		Temperature: defaultTemperature,
	},
	"executor": {
		Name:        "executor",
		Role:        RoleExecutor,
		Description: "Executes plans and completes tasks",
		Instructions: `You are an Executor Agent. You complete tasks efficiently and effectively.

Your Task:
- Follow the provided plan
- Execute each step carefully
- Report progress and results
- Handle errors gracefully`,
		Temperature: defaultTemperature,
	},
}

// Template returns a predefined agent template by name.
func Template(name string) (AgentConfig, bool) {
	tpl, ok := agentTemplates[name]
	if !ok {
		return AgentConfig{}, false
	}
	cfg := tpl.Clone()
	if cfg.Tools == nil {
		cfg.Tools = []string{}
	}
	if cfg.Metadata == nil {
		cfg.Metadata = map[string]any{}
	}
	return cfg, true
}

// TemplateNames lists the available template names in sorted order.
func TemplateNames() []string {
	return slices.Sorted(maps.Keys(agentTemplates))
}
