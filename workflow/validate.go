package workflow

import (
	"fmt"
	"slices"
)

// ValidateAgent checks an agent config and returns every problem found.
// An empty slice means the config is valid.
func ValidateAgent(cfg AgentConfig) []error {
	var errs []error

	if cfg.Name == "" {
		errs = append(errs, fmt.Errorf("agent must have a name"))
	}
	if !cfg.Role.Valid() {
		errs = append(errs, fmt.Errorf("unknown agent role %q", cfg.Role))
	}
	if cfg.Description == "" {
		errs = append(errs, fmt.Errorf("agent must have a description"))
	}
	if cfg.Instructions == "" {
		errs = append(errs, fmt.Errorf("agent must have instructions"))
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		errs = append(errs, fmt.Errorf("temperature must be between 0 and 1, got %g", cfg.Temperature))
	}
	if cfg.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("max_tokens must be positive, got %d", cfg.MaxTokens))
	}

	return errs
}

// ValidateWorkflow checks a workflow config against the set of registered
// agent names and returns every problem found. The dispatcher does not call
// this: a stored workflow is trusted at run time and re-checked only for the
// per-strategy emptiness rules, so an agent deleted after registration
// degrades to a runtime warning instead of blocking the run.
func ValidateWorkflow(cfg WorkflowConfig, availableAgents []string) []error {
	var errs []error

	if cfg.Name == "" {
		errs = append(errs, fmt.Errorf("workflow must have a name"))
	}
	if !cfg.Pattern.Valid() {
		errs = append(errs, fmt.Errorf("unknown orchestration pattern %q", cfg.Pattern))
	}
	if len(cfg.Agents) == 0 {
		errs = append(errs, fmt.Errorf("workflow must have at least one agent"))
	}
	for _, name := range cfg.Agents {
		if !slices.Contains(availableAgents, name) {
			errs = append(errs, fmt.Errorf("agent %q not found in registry", name))
		}
	}
	if cfg.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("max_iterations must be at least 1, got %d", cfg.MaxIterations))
	}
	if cfg.Pattern == PatternHierarchical && len(cfg.Agents) < 2 {
		errs = append(errs, fmt.Errorf("hierarchical pattern requires at least 2 agents (1 coordinator + workers)"))
	}

	return errs
}
