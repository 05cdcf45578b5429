package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/agentloom/agentloom/orchestrate"
	"github.com/agentloom/agentloom/workflow"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List orchestration patterns",
	Run: func(cmd *cobra.Command, args []string) {
		runnable := orchestrate.RunnablePatterns()
		for _, p := range workflow.Patterns() {
			state := "declared"
			if slices.Contains(runnable, p) {
				state = "runnable"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", p, state)
		}
	},
}
