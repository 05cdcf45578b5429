package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentloom/agentloom/registry"
	"github.com/agentloom/agentloom/workflow"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate all agents and workflows in the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.New(viper.GetString("registry"), registry.WithLogger(newLogger()))
		if err != nil {
			return err
		}

		names := reg.AgentNames()
		problems := 0

		for _, cfg := range reg.Agents() {
			for _, err := range workflow.ValidateAgent(cfg) {
				fmt.Fprintf(cmd.OutOrStdout(), "agent %s: %v\n", cfg.Name, err)
				problems++
			}
		}
		for _, cfg := range reg.Workflows() {
			for _, err := range workflow.ValidateWorkflow(cfg, names) {
				fmt.Fprintf(cmd.OutOrStdout(), "workflow %s: %v\n", cfg.Name, err)
				problems++
			}
		}

		if problems > 0 {
			return fmt.Errorf("%d validation problem(s) found", problems)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d agent(s), %d workflow(s)\n",
			len(reg.Agents()), len(reg.Workflows()))
		return nil
	},
}
