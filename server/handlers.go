package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agentloom/agentloom/orchestrate"
	"github.com/agentloom/agentloom/registry"
	"github.com/agentloom/agentloom/workflow"
)

// agentRequest mirrors the agent creation payload.
type agentRequest struct {
	Name         string         `json:"name"`
	Role         string         `json:"role"`
	Description  string         `json:"description"`
	Instructions string         `json:"instructions"`
	ModelID      string         `json:"model_id,omitempty"`
	Temperature  *float64       `json:"temperature,omitempty"`
	MaxTokens    int            `json:"max_tokens,omitempty"`
	Tools        []string       `json:"tools,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// workflowRequest mirrors the workflow creation payload.
type workflowRequest struct {
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	Pattern              string         `json:"pattern"`
	Agents               []string       `json:"agents"`
	TerminationCondition string         `json:"termination_condition,omitempty"`
	MaxIterations        *int           `json:"max_iterations,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
}

// runRequest starts a run of a registered workflow.
type runRequest struct {
	Workflow string `json:"workflow"`
	UserID   string `json:"user_id"`
	Input    string `json:"input"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeValidation(w http.ResponseWriter, errs []error) {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "details": msgs})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "AgentLoom API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"agents":    "/agents",
			"workflows": "/workflows",
			"templates": "/templates",
			"patterns":  "/patterns",
			"runs":      "/runs",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"agents":    len(s.registry.Agents()),
		"workflows": len(s.registry.Workflows()),
	})
}

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	agents := s.registry.Agents()
	writeJSON(w, http.StatusOK, map[string]any{"agents": agents, "count": len(agents)})
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.registry.Agent(r.PathValue("name"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) agentFromRequest(req agentRequest) workflow.AgentConfig {
	b := workflow.NewAgentBuilder(req.Name, workflow.Role(req.Role)).
		WithDescription(req.Description).
		WithInstructions(req.Instructions).
		WithTools(req.Tools...)
	if req.ModelID != "" {
		temp := 0.7
		if req.Temperature != nil {
			temp = *req.Temperature
		}
		b = b.WithModel(req.ModelID, temp)
	} else if req.Temperature != nil {
		b = b.WithModel("", *req.Temperature)
	}
	if req.MaxTokens > 0 {
		b = b.WithMaxTokens(req.MaxTokens)
	}
	for k, v := range req.Metadata {
		b = b.WithMetadata(k, v)
	}
	return b.Build()
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg := s.agentFromRequest(req)
	if errs := workflow.ValidateAgent(cfg); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	if err := s.registry.RegisterAgent(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Agent '" + cfg.Name + "' created successfully",
		"agent":   cfg,
	})
}

func (s *Server) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if _, err := s.registry.Agent(name); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = name

	cfg := s.agentFromRequest(req)
	if errs := workflow.ValidateAgent(cfg); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	if err := s.registry.RegisterAgent(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Agent '" + cfg.Name + "' updated successfully",
		"agent":   cfg,
	})
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.registry.DeleteAgent(name); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Agent '" + name + "' deleted successfully"})
}

func (s *Server) handleListWorkflows(w http.ResponseWriter, _ *http.Request) {
	workflows := s.registry.Workflows()
	writeJSON(w, http.StatusOK, map[string]any{"workflows": workflows, "count": len(workflows)})
}

func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.registry.Workflow(r.PathValue("name"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req workflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b := workflow.NewWorkflowBuilder(req.Name, workflow.Pattern(req.Pattern)).
		WithDescription(req.Description).
		AddAgents(req.Agents...).
		WithTermination(req.TerminationCondition)
	if req.MaxIterations != nil {
		b = b.WithMaxIterations(*req.MaxIterations)
	}
	for k, v := range req.Metadata {
		b = b.WithMetadata(k, v)
	}
	cfg := b.Build()

	if errs := workflow.ValidateWorkflow(cfg, s.registry.AgentNames()); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	if err := s.registry.RegisterWorkflow(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Workflow '" + cfg.Name + "' created successfully",
		"workflow": cfg,
	})
}

func (s *Server) handleDeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.registry.DeleteWorkflow(name); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Workflow '" + name + "' deleted successfully"})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	names := workflow.TemplateNames()
	writeJSON(w, http.StatusOK, map[string]any{"templates": names, "count": len(names)})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	tpl, ok := workflow.Template(name)
	if !ok {
		writeError(w, http.StatusNotFound, "template '"+name+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleInstantiateTemplate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	tpl, ok := workflow.Template(name)
	if !ok {
		writeError(w, http.StatusNotFound, "template '"+name+"' not found")
		return
	}
	customName := r.URL.Query().Get("name")
	if customName == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'name' is required")
		return
	}

	cfg := tpl
	cfg.Name = customName
	if err := s.registry.RegisterAgent(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Agent '" + customName + "' created from template '" + name + "'",
		"agent":   cfg,
	})
}

func (s *Server) handleListPatterns(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"patterns": workflow.Patterns(),
		"runnable": orchestrate.RunnablePatterns(),
		"count":    len(workflow.Patterns()),
	})
}

// handleRun starts a run and streams its events as newline-delimited JSON.
// The response is written event by event; a client disconnect cancels the run
// through the request context.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		req.UserID = "default_user"
	}

	cfg, err := s.registry.Workflow(req.Workflow)
	if err != nil {
		if errors.Is(err, registry.ErrWorkflowNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	runID, events := s.dispatcher.Run(r.Context(), cfg, req.UserID, req.Input)
	s.logger.Info("run started", "run_id", runID, "workflow", cfg.Name, "user_id", req.UserID)

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("X-Run-ID", runID)
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	for ev := range events {
		if err := enc.Encode(ev); err != nil {
			s.logger.Debug("client went away", "run_id", runID, "error", err)
			return
		}
		flusher.Flush()
	}
}
