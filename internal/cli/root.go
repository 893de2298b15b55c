// Package cli implements the pathway command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/pathway/middlewares"
	"github.com/dmitrymomot/pathway/pkg/logger"
	"github.com/dmitrymomot/pathway/pkg/routeconfig"
	"github.com/dmitrymomot/pathway/pkg/routing"
)

// Version information (set at build time).
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "pathway",
		Short: "Hierarchical URL routing engine",
		Long: `pathway resolves request paths against a tree of regular expression routes
and generates URLs back from route names.

Routes are declared in a YAML file. The same file can be inspected from the
command line or served over HTTP.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "version", "completion", "__complete":
				return nil
			}

			cfg, err := LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./"+DefaultConfigFile+")")
	flags.StringP("routes", "r", "", "route file (default: "+DefaultRoutesFile+")")
	flags.String("prefix", "", "prefix prepended to generated URLs")
	flags.String("module-key", "", "parameter name carrying the module")
	flags.String("action-key", "", "parameter name carrying the action")
	flags.String("not-found-module", "", "module selected when no route resolves one")
	flags.String("not-found-action", "", "action selected when no route resolves one")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.String("log-format", "", "log format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{logger.FormatText, logger.FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newMatchCommand(),
		newGenCommand(),
		newRoutesCommand(),
		newExportCommand(),
		newCheckCommand(),
		newServeCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// configFrom returns the configuration loaded by the root command.
func configFrom(cmd *cobra.Command) *Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*Config); ok {
		return cfg
	}
	return &Config{Routes: DefaultRoutesFile, LogLevel: DefaultLogLevel, LogFormat: DefaultLogFormat, Store: StoreConfig{Driver: DefaultStore}}
}

// newLogger builds the process logger. The returned flush function must be
// called before exit when Sentry is enabled.
func newLogger(cfg *Config, w io.Writer) (*slog.Logger, func(), error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	lc := logger.Config{Output: w, Format: cfg.LogFormat, Level: level}
	extractors := []logger.ContextExtractor{middlewares.RequestIDExtractor(), routing.LogExtractor}

	if cfg.SentryDSN == "" {
		return logger.New(lc, extractors...), func() {}, nil
	}

	log := logger.NewWithSentry(lc, logger.SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     "pathway@" + Version,
	}, extractors...)
	return log, func() { logger.FlushSentry(2 * time.Second) }, nil
}

// routerOptions converts the configuration to router options.
func routerOptions(cfg *Config, log *slog.Logger) []routing.Option {
	opts := []routing.Option{
		routing.WithLogger(log),
		routing.WithSource("_ENV", routing.EnvSource()),
	}
	if cfg.Prefix != "" {
		opts = append(opts, routing.WithPrefix(cfg.Prefix))
	}
	if cfg.ModuleKey != "" {
		opts = append(opts, routing.WithModuleKey(cfg.ModuleKey))
	}
	if cfg.ActionKey != "" {
		opts = append(opts, routing.WithActionKey(cfg.ActionKey))
	}
	if cfg.NotFound.Module != "" || cfg.NotFound.Action != "" {
		opts = append(opts, routing.WithNotFound(cfg.NotFound.Module, cfg.NotFound.Action))
	}
	return opts
}

// buildRouter loads the configured route file.
func buildRouter(cmd *cobra.Command) (*routing.Router, *routeconfig.File, error) {
	cfg := configFrom(cmd)

	log, flush, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	defer flush()

	f, err := routeconfig.LoadFile(cfg.Routes)
	if err != nil {
		return nil, nil, err
	}
	r, err := f.Build(routerOptions(cfg, log)...)
	if err != nil {
		return nil, nil, err
	}
	return r, f, nil
}
