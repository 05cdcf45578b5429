// Package evaluation provides a lightweight scenario harness for exercising
// workflows end to end through the dispatcher: run a scenario, drain the
// event stream, and judge the outcome against expected substrings.
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/orchestrate"
	"github.com/agentloom/agentloom/workflow"
)

// Scenario describes one evaluation case for a workflow.
type Scenario struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Input            string   `json:"input"`
	ExpectSubstrings []string `json:"expect_substrings,omitempty"`
}

// Result records the outcome of one scenario run.
type Result struct {
	Scenario  string        `json:"scenario"`
	Passed    bool          `json:"passed"`
	Output    string        `json:"output"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Summary aggregates the results of a scenario batch.
type Summary struct {
	Total    int      `json:"total"`
	Passed   int      `json:"passed"`
	Failed   int      `json:"failed"`
	PassRate float64  `json:"pass_rate"`
	Results  []Result `json:"results"`
}

// WriteFile exports the summary as indented JSON.
func (s Summary) WriteFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// Options holds overrides passed to NewRunner.
type Options struct {
	// UserID is the identity scenarios run under.
	UserID string
}

// Runner executes scenarios against a dispatcher.
type Runner struct {
	dispatcher *orchestrate.Dispatcher
	userID     string
}

// NewRunner builds a scenario runner.
func NewRunner(d *orchestrate.Dispatcher, optFns ...func(o *Options)) *Runner {
	opts := Options{UserID: "eval_user"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runner{dispatcher: d, userID: opts.UserID}
}

// Run executes one scenario. A scenario passes when the stream terminated
// with a final event, carried no error event, and the concatenated output
// contains every expected substring (case-insensitive).
func (r *Runner) Run(ctx context.Context, wf workflow.WorkflowConfig, sc Scenario) Result {
	start := time.Now()
	result := Result{Scenario: sc.Name, Timestamp: start.UTC()}

	_, stream := r.dispatcher.Run(ctx, wf, r.userID, sc.Input)

	var (
		payloads []string
		sawFinal bool
		sawError bool
	)
	for ev := range stream {
		payloads = append(payloads, ev.Payload)
		switch ev.Kind {
		case core.EventFinal:
			sawFinal = true
		case core.EventError:
			sawError = true
			result.Error = ev.Payload
		}
	}

	result.Output = strings.Join(payloads, "\n")
	result.Duration = time.Since(start)
	result.Passed = sawFinal && !sawError && containsAll(result.Output, sc.ExpectSubstrings)
	if ctx.Err() != nil {
		result.Passed = false
		result.Error = ctx.Err().Error()
	}
	return result
}

// RunAll executes every scenario in order against the same workflow.
func (r *Runner) RunAll(ctx context.Context, wf workflow.WorkflowConfig, scenarios []Scenario) Summary {
	summary := Summary{Total: len(scenarios)}
	for _, sc := range scenarios {
		result := r.Run(ctx, wf, sc)
		if result.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)
	}
	if summary.Total > 0 {
		summary.PassRate = float64(summary.Passed) / float64(summary.Total)
	}
	return summary
}

func containsAll(haystack string, needles []string) bool {
	lower := strings.ToLower(haystack)
	for _, n := range needles {
		if !strings.Contains(lower, strings.ToLower(n)) {
			return false
		}
	}
	return true
}
