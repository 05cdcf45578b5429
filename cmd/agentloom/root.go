package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentloom/agentloom/logging"
)

var rootCmd = &cobra.Command{
	Use:   "agentloom",
	Short: "Multi-agent workflow orchestration",
	Long: `AgentLoom builds and runs multi-agent workflows from YAML
configurations. Agents are composed into sequential pipelines, parallel
fan-outs or hierarchical coordinator/worker teams, and every run streams
ordered events until a terminal result.

Workflows and agents live as YAML files in a registry directory and can be
managed over the REST API exposed by 'agentloom serve'.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("registry", "agents", "Directory holding agent and workflow YAML files")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text or json)")

	viper.SetEnvPrefix("AGENTLOOM")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("registry", rootCmd.PersistentFlags().Lookup("registry"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger() logging.Logger {
	level := logging.ParseLevel(viper.GetString("log-level"))
	return logging.NewSlogLogger(level, viper.GetString("log-format"))
}
