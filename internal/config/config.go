// Package config provides configuration management for inkpot using Viper
// for flexible configuration loading from files, environment variables and
// command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the INKPOT_ prefix, defaults and validation. It covers the
// HTTP server, the optional seed file, logging, metrics and development
// options such as live reload.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Seed        SeedConfig        `mapstructure:"seed" yaml:"seed"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	Host            string        `mapstructure:"host" yaml:"host"`
	Environment     string        `mapstructure:"environment" yaml:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// SeedConfig points at a YAML file whose records are loaded into the
// stores at startup. An empty File starts the blog empty.
type SeedConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Watch bool   `mapstructure:"watch" yaml:"watch"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

type DevelopmentConfig struct {
	LiveReload bool `mapstructure:"live_reload" yaml:"live_reload"`
}

// Default values applied by Load when a setting is absent.
const (
	DefaultPort            = 8080
	DefaultHost            = "localhost"
	DefaultEnvironment     = "development"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultMetricsPath     = "/metrics"
)

// Default returns a configuration holding only default values.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg, viper.New())
	return cfg
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config, viper.GetViper())

	// Handle allowed origins set via viper (workaround for viper slice handling)
	if viper.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}

	// Validate configuration values
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyDefaults(config *Config, v *viper.Viper) {
	// Port 0 is only kept when set explicitly (system-assigned port in tests)
	if config.Server.Port == 0 && !v.IsSet("server.port") {
		config.Server.Port = DefaultPort
	}
	if config.Server.Host == "" {
		config.Server.Host = DefaultHost
	}
	if config.Server.Environment == "" {
		config.Server.Environment = DefaultEnvironment
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if config.Logging.Level == "" {
		config.Logging.Level = DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = DefaultLogFormat
	}

	// Booleans default to true unless explicitly set (workaround for viper bool handling)
	if !v.IsSet("metrics.enabled") {
		config.Metrics.Enabled = true
	}
	if config.Metrics.Path == "" {
		config.Metrics.Path = DefaultMetricsPath
	}
	if !v.IsSet("development.live_reload") {
		config.Development.LiveReload = true
	}
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction reports whether the server runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
