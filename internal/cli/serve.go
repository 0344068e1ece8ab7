package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout HTTP API",
		Long: `Serve the layout HTTP API.

Routes:
  GET  /healthz          liveness and build information
  POST /v1/layout        lay out a graph document (JSON, YAML or TOML body)
  GET  /v1/layout/{id}   fetch a stored layout document
  POST /v1/region        resolve a region placement

Layouts are stored in the configured cache backend; use a shared backend
(redis or mongo) when running several instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if addr == "" {
				addr = runner.Config.Server.Addr
			}
			return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching (GET /v1/layout/{id} will always miss)")
	return cmd
}
