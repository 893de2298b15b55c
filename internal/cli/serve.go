package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/pathway"
	"github.com/dmitrymomot/pathway/pkg/locale"
	"github.com/dmitrymomot/pathway/pkg/telemetry"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routing tree over HTTP",
		Long: `Serve the routing tree over HTTP.

Every request path is resolved and answered with the routing result as JSON.
/_gen/{route} generates URLs, /_routes lists the tree, /metrics exposes
prometheus metrics and /health/live and /health/ready are the probes.`,
		Example: `  pathway serve --address :9000 --watch
  PATHWAY_STORE_DRIVER=redis PATHWAY_STORE_URL=redis://localhost:6379/0 pathway serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configFrom(cmd), cmd)
		},
	}
	cmd.Flags().StringP("address", "a", "", "listen address (default: "+DefaultAddress+")")
	cmd.Flags().BoolP("watch", "w", false, "reload the route file on change")
	cmd.Flags().String("store-driver", "", "snapshot store (none|memory|redis|postgres|s3)")
	cmd.Flags().String("store-url", "", "snapshot store connection URL")
	cmd.Flags().StringSlice("locales", nil, "supported locales, the first is the default")
	return cmd
}

func serve(ctx context.Context, cfg *Config, cmd *cobra.Command) error {
	log, flush, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer flush()

	store, closeStore, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}

	opts := []pathway.Option{
		pathway.WithRoutesFile(cfg.Routes),
		pathway.WithRouterOptions(routerOptions(cfg, log)...),
		pathway.WithLogger(log),
		pathway.WithMetrics(telemetry.NewPrometheus()),
		pathway.WithTracing(telemetry.NewTracing()),
	}
	if store != nil {
		opts = append(opts, pathway.WithStore(store))
	}
	if len(cfg.Locales) > 0 {
		n, err := locale.New(cfg.Locales...)
		if err != nil {
			_ = closeStore()
			return err
		}
		opts = append(opts, pathway.WithLocales(n))
	}
	if cfg.Watch {
		opts = append(opts, pathway.WithWatch(0))
	}

	app, err := pathway.New(ctx, opts...)
	if err != nil {
		_ = closeStore()
		return err
	}

	log.InfoContext(ctx, "routes loaded",
		slog.String("file", cfg.Routes),
		slog.Int("routes", app.Router().Len()),
		slog.String("store", cfg.Store.Driver),
	)

	return app.Run(cfg.Address,
		pathway.WithContext(ctx),
		pathway.ShutdownHook(func(context.Context) error { return closeStore() }),
	)
}
