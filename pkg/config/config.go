// Package config loads CityLex settings from defaults, an optional YAML file,
// CITYLEX_ environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override, e.g. CITYLEX_STORE_PATH.
const EnvPrefix = "CITYLEX_"

// Default values.
const (
	DefaultDriver    = "sqlite3"
	DefaultStorePath = "data/citylex.db"
	DefaultAddr      = "127.0.0.1:5000"
	DefaultBatchSize = 500
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Config holds all CityLex settings.
type Config struct {
	Store    StoreConfig    `koanf:"store"`
	Server   ServerConfig   `koanf:"server"`
	Export   ExportConfig   `koanf:"export"`
	Features FeaturesConfig `koanf:"features"`
	Log      LogConfig      `koanf:"log"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// StoreConfig locates the lexicon store.
type StoreConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=sqlite3 duckdb pgx"`
	// Path is a file path for sqlite3 and duckdb, a DSN for pgx.
	Path string `koanf:"path" validate:"required"`
}

type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

type ExportConfig struct {
	BatchSize int `koanf:"batch_size" validate:"min=1"`
}

type FeaturesConfig struct {
	// Table is an optional YAML tag table replacing the built-in one.
	Table string `koanf:"table" validate:"omitempty,file"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"db-path":        "store.path",
	"driver":         "store.driver",
	"addr":           "server.addr",
	"batch-size":     "export.batch_size",
	"features-table": "features.table",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"store.driver":      DefaultDriver,
		"store.path":        DefaultStorePath,
		"server.addr":       DefaultAddr,
		"export.batch_size": DefaultBatchSize,
		"features.table":    "",
		"log.level":         DefaultLogLevel,
		"log.format":        DefaultLogFormat,
	}
}

// findConfigFile returns the explicit path, or citylex.yaml / citylex.yml in
// the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"citylex.yaml", "citylex.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey transforms CITYLEX_STORE_PATH into store.path. Only the first
// underscore separates the section, so CITYLEX_EXPORT_BATCH_SIZE becomes
// export.batch_size.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Load reads configuration. Precedence (highest to lowest): flags that were
// explicitly set > env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field and reports failures by config key.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		// Use koanf key in error messages
		return strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, e := range verrs {
		key := strings.TrimPrefix(e.Namespace(), "Config.")
		errs = append(errs, fmt.Errorf("key=%q, value=\"%v\", failed %q validation", key, e.Value(), e.ActualTag()))
	}
	return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
}
