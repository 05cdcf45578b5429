package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentBuilder(t *testing.T) {
	cfg := NewAgentBuilder("critic", RoleCritic).
		WithDescription("Reviews drafts").
		WithInstructions("Review carefully").
		WithModel("gpt-4o", 0.3).
		WithMaxTokens(2048).
		WithTools("search", "calculator").
		WithMetadata("team", "content").
		Build()

	assert.Equal(t, "critic", cfg.Name)
	assert.Equal(t, RoleCritic, cfg.Role)
	assert.Equal(t, "Reviews drafts", cfg.Description)
	assert.Equal(t, "gpt-4o", cfg.ModelID)
	assert.Equal(t, 0.3, cfg.Temperature)
	assert.Equal(t, 2048, cfg.MaxTokens)
	assert.Equal(t, []string{"search", "calculator"}, cfg.Tools)
	assert.Equal(t, "content", cfg.Metadata["team"])
}

func TestAgentBuilder_Defaults(t *testing.T) {
	cfg := NewAgentBuilder("a", RoleCustom).Build()

	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Empty(t, cfg.Tools)
	assert.Empty(t, cfg.Metadata)
}

func TestWorkflowBuilder(t *testing.T) {
	cfg := NewWorkflowBuilder("review-pipeline", PatternSequential).
		WithDescription("Draft then review").
		AddAgent("writer").
		AddAgents("critic", "editor").
		WithTermination("approved").
		WithMaxIterations(5).
		Build()

	assert.Equal(t, "review-pipeline", cfg.Name)
	assert.Equal(t, PatternSequential, cfg.Pattern)
	assert.Equal(t, []string{"writer", "critic", "editor"}, cfg.Agents)
	assert.Equal(t, "approved", cfg.TerminationCondition)
	assert.Equal(t, 5, cfg.MaxIterations)
}

func TestWorkflowBuilder_BuildReturnsCopy(t *testing.T) {
	b := NewWorkflowBuilder("wf", PatternParallel).AddAgent("a")

	first := b.Build()
	b.AddAgent("b")
	second := b.Build()

	assert.Equal(t, []string{"a"}, first.Agents)
	assert.Equal(t, []string{"a", "b"}, second.Agents)
}
