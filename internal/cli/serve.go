package cli

import (
	"github.com/spf13/cobra"

	"github.com/iloginov/tasker/internal/server"
	"github.com/iloginov/tasker/pkg/config"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Routes:
  GET  /healthz                  liveness and build info
  POST /v1/layout                lay out a graph and render artifacts
  POST /v1/dependencies/check    test whether a new dependency keeps the graph acyclic

Requests may carry X-Project-ID to keep their cache entries apart. The server
shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  tasker serve
  tasker serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			ctx := cmd.Context()

			runner := c.newRunner(ctx, false)
			defer runner.Close()

			srv := server.New(runner, c.Config.PipelineOptions(), c.Logger)
			printInfo(cmd.ErrOrStderr(), "Listening on %s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, or "+config.DefaultAddr+")")

	return cmd
}
