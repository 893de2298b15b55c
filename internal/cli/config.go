package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Defaults
const (
	DefaultConfigFile = "pathway.yaml"
	DefaultRoutesFile = "routes.yaml"
	DefaultAddress    = ":8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultStore      = StoreNone

	envPrefix = "PATHWAY_"
)

// Snapshot store drivers.
const (
	StoreNone     = "none"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreS3       = "s3"
)

// ErrConfig is returned when the configuration cannot be loaded.
var ErrConfig = errors.New("cli: invalid configuration")

// Config is the process configuration.
type Config struct {
	Routes      string         `koanf:"routes"`
	Prefix      string         `koanf:"prefix"`
	ModuleKey   string         `koanf:"module_key"`
	ActionKey   string         `koanf:"action_key"`
	NotFound    NotFoundConfig `koanf:"not_found"`
	Locales     []string       `koanf:"locales"`
	Store       StoreConfig    `koanf:"store"`
	Address     string         `koanf:"address"`
	LogLevel    string         `koanf:"log_level"`
	LogFormat   string         `koanf:"log_format"`
	SentryDSN   string         `koanf:"sentry_dsn"`
	Environment string         `koanf:"environment"`
	Watch       bool           `koanf:"watch"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// NotFoundConfig selects the module and action of unresolved requests.
type NotFoundConfig struct {
	Module string `koanf:"module"`
	Action string `koanf:"action"`
}

// StoreConfig configures the snapshot store.
type StoreConfig struct {
	Driver    string `koanf:"driver"`
	URL       string `koanf:"url"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Prefix    string `koanf:"prefix"`
}

// LoadConfig loads configuration from defaults, the config file,
// PATHWAY_* environment variables and explicitly set flags, in that order.
// A missing default config file is not an error; a missing explicit one is.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"routes":       DefaultRoutesFile,
		"address":      DefaultAddress,
		"log_level":    DefaultLogLevel,
		"log_format":   DefaultLogFormat,
		"store.driver": DefaultStore,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("%w: defaults: %w", ErrConfig, err)
	}

	used := cfgFile
	if used == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			used = DefaultConfigFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: config file %s: %w", ErrConfig, used, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrConfig, err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return sectionKey(strings.ReplaceAll(f.Name, "-", "_")), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("%w: flags: %w", ErrConfig, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	cfg.File = used

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envValue maps PATHWAY_STORE_URL to store.url and PATHWAY_LOG_LEVEL to log_level.
// PATHWAY_LOCALES is a comma separated list.
func envValue(name, value string) (string, any) {
	key := envKey(name)
	if key == "locales" {
		return key, strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' })
	}
	return key, value
}

func envKey(s string) string {
	return sectionKey(strings.ToLower(strings.TrimPrefix(s, envPrefix)))
}

// sectionKey turns store_url into store.url.
func sectionKey(key string) string {
	for _, section := range []string{"store_", "not_found_"} {
		if rest, ok := strings.CutPrefix(key, section); ok {
			return strings.TrimSuffix(section, "_") + "." + rest
		}
	}
	return key
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreNone, StoreMemory, StoreRedis, StorePostgres, StoreS3:
	case "":
		c.Store.Driver = StoreNone
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrConfig, c.Store.Driver)
	}
	if c.Routes == "" {
		return fmt.Errorf("%w: routes file is required", ErrConfig)
	}
	return nil
}
