package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/swisspair/internal/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		origins []string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pairing engines over HTTP",
		Long: `Serve the pairing engines over HTTP.

Endpoints live under /v1; Prometheus metrics are exposed on /metrics. The
server shuts down gracefully on interrupt.`,
		Example: `  swisspair serve --addr :9000
  swisspair serve --cors-origin https://club.example.org`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			metrics := api.NewMetrics()
			metrics.Install()

			srv := api.New(api.Config{
				Runner:         runner,
				Logger:         loggerFromContext(ctx),
				Metrics:        metrics,
				MaxCandidates:  c.cfg.Pairing.MaxCandidates,
				AllowedOrigins: origins,
			})
			printInfo("Listening on %s", addr)
			printNextStep("Try", "curl localhost"+addr+"/healthz")
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "allow browser requests from these origins")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
