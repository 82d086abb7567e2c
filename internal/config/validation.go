package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error"}
	validLogFormats   = []string{"text", "json"}
	validEnvironments = []string{"development", "staging", "production", "test"}
)

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateSeedConfig(&config.Seed); err != nil {
		return fmt.Errorf("seed config: %w", err)
	}

	if err := validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := validateMetricsConfig(&config.Metrics); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\", " "}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %q", char)
			}
		}
	}

	if !slices.Contains(validEnvironments, config.Environment) {
		return fmt.Errorf("unknown environment %q (expected one of %s)",
			config.Environment, strings.Join(validEnvironments, ", "))
	}

	if config.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must not be negative")
	}

	return nil
}

// validateSeedConfig validates the seed file path when one is configured
func validateSeedConfig(config *SeedConfig) error {
	if config.File == "" {
		if config.Watch {
			return fmt.Errorf("watch requires a seed file")
		}
		return nil
	}
	return validatePath(config.File)
}

func validateLoggingConfig(config *LoggingConfig) error {
	if !slices.Contains(validLogLevels, strings.ToLower(config.Level)) {
		return fmt.Errorf("unknown log level %q (expected one of %s)",
			config.Level, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validLogFormats, strings.ToLower(config.Format)) {
		return fmt.Errorf("unknown log format %q (expected one of %s)",
			config.Format, strings.Join(validLogFormats, ", "))
	}
	return nil
}

func validateMetricsConfig(config *MetricsConfig) error {
	if !strings.HasPrefix(config.Path, "/") {
		return fmt.Errorf("metrics path must start with '/': %s", config.Path)
	}
	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	// Reject dangerous characters
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
