package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/orchestrate"
	"github.com/agentloom/agentloom/registry"
)

var runInput string
var runUserID string

var runCmd = &cobra.Command{
	Use:   "run <workflow>",
	Short: "Run a workflow and stream its events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		reg, err := registry.New(viper.GetString("registry"), registry.WithLogger(logger))
		if err != nil {
			return err
		}
		cfg, err := reg.Workflow(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		disp := orchestrate.NewDispatcher(registryDirectory{reg}, orchestrate.WithLogger(logger))
		runID, events := disp.Run(ctx, cfg, runUserID, runInput)
		fmt.Fprintf(cmd.OutOrStdout(), "run %s started\n", runID)

		for ev := range events {
			if ev.SourceAgent != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", ev.Kind, ev.SourceAgent, ev.Payload)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", ev.Kind, ev.Payload)
			}
			if ev.Kind == core.EventError {
				return fmt.Errorf("run %s failed", runID)
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "Input passed to the workflow")
	runCmd.Flags().StringVarP(&runUserID, "user", "u", "cli_user", "User ID attributed to the run")
}
