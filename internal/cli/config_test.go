package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pathway/internal/cli"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := cli.LoadConfig("", nil)
	require.NoError(t, err)
	require.Equal(t, cli.DefaultRoutesFile, cfg.Routes)
	require.Equal(t, cli.DefaultAddress, cfg.Address)
	require.Equal(t, cli.DefaultLogLevel, cfg.LogLevel)
	require.Equal(t, cli.StoreNone, cfg.Store.Driver)
	require.Empty(t, cfg.File)
}

func TestLoadConfig_File(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "pathway.yaml", `
routes: ./site/routes.yaml
prefix: /app
not_found:
  module: errors
  action: "404"
locales: [en, de]
store:
  driver: redis
  url: redis://localhost:6379/1
  prefix: site
watch: true
`)

	cfg, err := cli.LoadConfig(path, nil)
	require.NoError(t, err)
	require.Equal(t, path, cfg.File)
	require.Equal(t, "./site/routes.yaml", cfg.Routes)
	require.Equal(t, "/app", cfg.Prefix)
	require.Equal(t, "errors", cfg.NotFound.Module)
	require.Equal(t, "404", cfg.NotFound.Action)
	require.Equal(t, []string{"en", "de"}, cfg.Locales)
	require.Equal(t, cli.StoreRedis, cfg.Store.Driver)
	require.Equal(t, "redis://localhost:6379/1", cfg.Store.URL)
	require.Equal(t, "site", cfg.Store.Prefix)
	require.True(t, cfg.Watch)
	require.Equal(t, cli.DefaultAddress, cfg.Address)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeFile(t, "pathway.yaml", "address: :7000\nlog_level: warn\nstore:\n  driver: memory\n")

	t.Setenv("PATHWAY_ADDRESS", ":7100")
	t.Setenv("PATHWAY_STORE_URL", "postgres://localhost/routes")
	t.Setenv("PATHWAY_NOT_FOUND_ACTION", "missing")
	t.Setenv("PATHWAY_LOCALES", "fr, it")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("address", "", "")
	flags.String("log-level", "", "")
	flags.String("store-driver", "", "")
	require.NoError(t, flags.Parse([]string{"--address", ":7200", "--store-driver", "postgres"}))

	cfg, err := cli.LoadConfig(path, flags)
	require.NoError(t, err)
	require.Equal(t, ":7200", cfg.Address, "flags win over env and file")
	require.Equal(t, "warn", cfg.LogLevel, "unset flags keep file values")
	require.Equal(t, cli.StorePostgres, cfg.Store.Driver)
	require.Equal(t, "postgres://localhost/routes", cfg.Store.URL)
	require.Equal(t, "missing", cfg.NotFound.Action)
	require.Equal(t, []string{"fr", "it"}, cfg.Locales)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing explicit file", func(t *testing.T) {
		t.Parallel()

		_, err := cli.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.ErrorIs(t, err, cli.ErrConfig)
	})

	t.Run("unknown store driver", func(t *testing.T) {
		t.Parallel()

		_, err := cli.LoadConfig(writeFile(t, "pathway.yaml", "store:\n  driver: mongo\n"), nil)
		require.ErrorIs(t, err, cli.ErrConfig)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := cli.LoadConfig(writeFile(t, "pathway.yaml", "routes: [\n"), nil)
		require.ErrorIs(t, err, cli.ErrConfig)
	})
}
