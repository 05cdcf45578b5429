package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/agentloom/agentloom/logging"
	"github.com/agentloom/agentloom/workflow"
)

// ErrAgentNotFound is returned when a named agent is not registered.
var ErrAgentNotFound = errors.New("agent not found")

// ErrWorkflowNotFound is returned when a named workflow is not registered.
var ErrWorkflowNotFound = errors.New("workflow not found")

const workflowsSubdir = "workflows"

// Options holds overrides passed to New.
type Options struct {
	// Logger receives load/save diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// WithLogger sets the registry logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Registry is a YAML-file backed store of agent and workflow configurations.
// All reads return clones so callers cannot mutate internal state.
type Registry struct {
	mu        sync.RWMutex
	dir       string
	agents    map[string]workflow.AgentConfig
	workflows map[string]workflow.WorkflowConfig
	logger    logging.Logger
}

// New constructs a registry rooted at dir and loads whatever is already
// there. A missing directory is not an error; it is created lazily on the
// first save.
func New(dir string, optFns ...func(o *Options)) (*Registry, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	r := &Registry{
		dir:       dir,
		agents:    make(map[string]workflow.AgentConfig),
		workflows: make(map[string]workflow.WorkflowConfig),
		logger:    opts.Logger,
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Dir returns the registry's root directory.
func (r *Registry) Dir() string { return r.dir }

// Reload re-reads every config file from disk, replacing the in-memory view.
// Unreadable or malformed files are logged and skipped.
func (r *Registry) Reload() error {
	agents := make(map[string]workflow.AgentConfig)
	workflows := make(map[string]workflow.WorkflowConfig)

	if err := r.loadAgents(agents); err != nil {
		return err
	}
	if err := r.loadWorkflows(workflows); err != nil {
		return err
	}

	r.mu.Lock()
	r.agents = agents
	r.workflows = workflows
	r.mu.Unlock()

	r.logger.Info("registry loaded", "dir", r.dir, "agents", len(agents), "workflows", len(workflows))
	return nil
}

func (r *Registry) loadAgents(into map[string]workflow.AgentConfig) error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warn("registry directory does not exist", "dir", r.dir)
			return nil
		}
		return fmt.Errorf("failed to read registry dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Error("failed to read agent file", "path", path, "error", err)
			continue
		}
		cfg, err := workflow.ParseAgent(data)
		if err != nil {
			r.logger.Error("failed to load agent", "path", path, "error", err)
			continue
		}
		into[cfg.Name] = cfg
		r.logger.Debug("loaded agent", "name", cfg.Name)
	}
	return nil
}

func (r *Registry) loadWorkflows(into map[string]workflow.WorkflowConfig) error {
	dir := filepath.Join(r.dir, workflowsSubdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read workflows dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Error("failed to read workflow file", "path", path, "error", err)
			continue
		}
		cfg, err := workflow.ParseWorkflow(data)
		if err != nil {
			r.logger.Error("failed to load workflow", "path", path, "error", err)
			continue
		}
		into[cfg.Name] = cfg
		r.logger.Debug("loaded workflow", "name", cfg.Name)
	}
	return nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// RegisterAgent stores an agent and persists it to disk.
func (r *Registry) RegisterAgent(cfg workflow.AgentConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("agent must have a name")
	}

	r.mu.Lock()
	r.agents[cfg.Name] = cfg.Clone()
	r.mu.Unlock()

	if err := r.saveAgent(cfg); err != nil {
		return err
	}
	r.logger.Info("registered agent", "name", cfg.Name)
	return nil
}

func (r *Registry) saveAgent(cfg workflow.AgentConfig) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create registry dir: %w", err)
	}
	data, err := workflow.EncodeAgent(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode agent %q: %w", cfg.Name, err)
	}
	path := filepath.Join(r.dir, cfg.Name+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save agent %q: %w", cfg.Name, err)
	}
	return nil
}

// Agent returns a clone of the named agent config.
func (r *Registry) Agent(name string) (workflow.AgentConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.agents[name]
	if !ok {
		return workflow.AgentConfig{}, fmt.Errorf("%w: %q", ErrAgentNotFound, name)
	}
	return cfg.Clone(), nil
}

// Agents lists all agent configs sorted by name.
func (r *Registry) Agents() []workflow.AgentConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]workflow.AgentConfig, 0, len(r.agents))
	for _, cfg := range r.agents {
		out = append(out, cfg.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AgentNames lists registered agent names sorted.
func (r *Registry) AgentNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.agents))
	for name := range r.agents {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DeleteAgent removes an agent from memory and disk.
func (r *Registry) DeleteAgent(name string) error {
	r.mu.Lock()
	_, ok := r.agents[name]
	delete(r.agents, name)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrAgentNotFound, name)
	}

	path := filepath.Join(r.dir, name+".yaml")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete agent file: %w", err)
	}
	r.logger.Info("deleted agent", "name", name)
	return nil
}

// RegisterWorkflow stores a workflow and persists it to disk.
func (r *Registry) RegisterWorkflow(cfg workflow.WorkflowConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("workflow must have a name")
	}

	r.mu.Lock()
	r.workflows[cfg.Name] = cfg.Clone()
	r.mu.Unlock()

	if err := r.saveWorkflow(cfg); err != nil {
		return err
	}
	r.logger.Info("registered workflow", "name", cfg.Name)
	return nil
}

func (r *Registry) saveWorkflow(cfg workflow.WorkflowConfig) error {
	dir := filepath.Join(r.dir, workflowsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create workflows dir: %w", err)
	}
	data, err := workflow.EncodeWorkflow(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode workflow %q: %w", cfg.Name, err)
	}
	path := filepath.Join(dir, cfg.Name+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save workflow %q: %w", cfg.Name, err)
	}
	return nil
}

// Workflow returns a clone of the named workflow config.
func (r *Registry) Workflow(name string) (workflow.WorkflowConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.workflows[name]
	if !ok {
		return workflow.WorkflowConfig{}, fmt.Errorf("%w: %q", ErrWorkflowNotFound, name)
	}
	return cfg.Clone(), nil
}

// Workflows lists all workflow configs sorted by name.
func (r *Registry) Workflows() []workflow.WorkflowConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]workflow.WorkflowConfig, 0, len(r.workflows))
	for _, cfg := range r.workflows {
		out = append(out, cfg.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DeleteWorkflow removes a workflow from memory and disk.
func (r *Registry) DeleteWorkflow(name string) error {
	r.mu.Lock()
	_, ok := r.workflows[name]
	delete(r.workflows, name)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrWorkflowNotFound, name)
	}

	path := filepath.Join(r.dir, workflowsSubdir, name+".yaml")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete workflow file: %w", err)
	}
	r.logger.Info("deleted workflow", "name", name)
	return nil
}
