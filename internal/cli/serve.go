package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tangle/internal/server"
	"github.com/matzehuels/tangle/pkg/cache"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		maxBody int64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Routes:
  POST /v1/layout   document → layout payload
  POST /v1/dot      document → bundle graph (?format=dot|svg|pdf|png)
  GET  /healthz     liveness probe

The address, body limit and cache lifetime default to the [server] section of
the settings file. Use --cache redis://... or mongodb://... to share results
between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("max-body-bytes") {
				cfg.MaxBodyBytes = maxBody
			}
			return c.runServe(cmd.Context(), cfg.Addr, cfg.MaxBodyBytes, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings, \":8080\")")
	cmd.Flags().Int64Var(&maxBody, "max-body-bytes", 0, "maximum request body size")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, maxBody int64, noCache bool) error {
	if maxBody <= 0 {
		return fmt.Errorf("max-body-bytes must be positive")
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	runner.TTL = c.settings.Server.CacheTTL.Duration
	if prefix := c.settings.Server.KeyPrefix; prefix != "" {
		runner.Keyer = cache.NewScopedKeyer(runner.Keyer, prefix)
	}

	srv := server.New(runner, server.Config{
		Addr:         addr,
		MaxBodyBytes: maxBody,
		Options:      c.pipelineOptions(),
	}, c.Logger)

	printKeyValue("Address", addr)
	printKeyValue("Cache", describeCache(c.resolveCacheSpec(noCache)))
	printNewline()

	return srv.ListenAndServe(ctx)
}
