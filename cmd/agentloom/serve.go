package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentloom/agentloom/core"
	"github.com/agentloom/agentloom/directory"
	"github.com/agentloom/agentloom/orchestrate"
	"github.com/agentloom/agentloom/registry"
	"github.com/agentloom/agentloom/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the AgentLoom API server",
	Long: `Starts the REST and WebSocket API for managing agents and workflows
and streaming workflow runs. The registry directory is watched for changes,
so YAML edits take effect without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		reg, err := registry.New(viper.GetString("registry"), registry.WithLogger(logger))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			if err := reg.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("registry watcher stopped", "error", err)
			}
		}()

		disp := orchestrate.NewDispatcher(registryDirectory{reg},
			orchestrate.WithInvokeTimeout(viper.GetDuration("invoke-timeout")),
			orchestrate.WithEventBufferSize(viper.GetInt("event-buffer")),
			orchestrate.WithLogger(logger),
		)

		s := server.New(reg, disp, server.WithLogger(logger))
		return s.Serve(ctx, viper.GetString("addr"))
	},
}

// registryDirectory resolves handles for whatever agents the registry
// currently holds, so registry edits take effect on the next lookup.
type registryDirectory struct {
	reg *registry.Registry
}

func (d registryDirectory) Lookup(name string) (core.Handle, bool) {
	if _, err := d.reg.Agent(name); err != nil {
		return nil, false
	}
	return directory.Echo(name), true
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "Listen address for the API server")
	serveCmd.Flags().Duration("invoke-timeout", 0, "Per-agent invocation timeout (0 disables)")
	serveCmd.Flags().Int("event-buffer", 64, "Event channel buffer size per run")

	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("invoke-timeout", serveCmd.Flags().Lookup("invoke-timeout"))
	_ = viper.BindPFlag("event-buffer", serveCmd.Flags().Lookup("event-buffer"))
}
