// Package config loads the shapecheck CLI settings from shapecheck.toml
// and SHAPECHECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "SHAPECHECK"
	ConfigFileName = "shapecheck"
	ConfigFileExt  = "toml"
)

type Config struct {
	// Enabled turns shape checking on or off for every checked call
	Enabled bool `mapstructure:"enabled"`
	// Color styles reports for the terminal
	Color    bool   `mapstructure:"color"`
	LogLevel string `mapstructure:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Color:    true,
		LogLevel: "error",
	}
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

type LoadOptions struct {
	// ConfigFilePath is used exclusively when set, and must exist
	ConfigFilePath string
	// Dir is searched for shapecheck.toml otherwise; defaults to the working directory
	Dir string
}

// Load reads the configuration. Environment variables take precedence over
// the file, which takes precedence over DefaultConfig.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("enabled", defaults.Enabled)
	v.SetDefault("color", defaults.Color)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType(ConfigFileExt)
	if opts.ConfigFilePath != "" {
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", opts.ConfigFilePath, err)
		}
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("could not read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
