// Package config loads the corefbridge settings from an optional YAML file,
// a .env file and COREF_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/revelaction/corefbridge/logging"
)

const envPrefix = "COREF"

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "corefbridge.yaml"

// Config holds the settings shared by all commands.
type Config struct {
	Log logging.LogConfig `mapstructure:"log"`

	// Number of documents converted concurrently.
	Workers int `mapstructure:"workers"`

	// Exit non-zero when any document of a batch failed.
	Strict bool `mapstructure:"strict"`

	// Concept type written by conll-to-native.
	ConceptType string `mapstructure:"concept_type"`

	// Replace existing output directories.
	Overwrite bool `mapstructure:"overwrite"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// keys must be known to viper for Unmarshal to see env overrides
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("strict", false)
	v.SetDefault("concept_type", "unknown")
	v.SetDefault("overwrite", false)
	return v
}

// Load reads path, or DefaultFile when path is empty and the file exists.
// Values from the environment, after loading any .env file, override the file.
func Load(path string) (*Config, error) {
	// a missing .env is the common case
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: could not load .env: %w", err)
	}

	v := newViper()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: could not read %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: could not unmarshal: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.ConceptType == "" {
		cfg.ConceptType = "unknown"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate checks the value ranges.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	if strings.ContainsAny(c.ConceptType, "\"\n") {
		return fmt.Errorf("invalid concept type %q", c.ConceptType)
	}

	return nil
}
