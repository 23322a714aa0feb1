// Package config loads zxbridge configuration from files, environment
// variables and flags.
package config

import (
	"fmt"

	"github.com/scantools/zxbridge/internal/decode"
)

// Config is the complete configuration for the zxbridge CLI and
// server. Values load from configuration files, ZXBRIDGE_* environment
// variables and command-line flags, in increasing precedence.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Decode DecodeConfig `mapstructure:"decode" yaml:"decode" json:"decode"`
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// DecodeConfig holds default decode request parameters. Per-request
// parameters override these.
type DecodeConfig struct {
	// TryHarder trades latency for recall: it enables the harder
	// search plus the rotation, inversion and downscale trials.
	TryHarder bool `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`

	// Formats restricts decoding to a comma-separated list of
	// symbology names. Empty means all supported formats.
	Formats string `mapstructure:"formats" yaml:"formats" json:"formats"`

	// MaxSymbols caps the number of symbols returned per request.
	MaxSymbols int `mapstructure:"max_symbols" yaml:"max_symbols" json:"max_symbols"`

	// ReturnErrors includes partially decoded symbols that carry a
	// per-symbol error in multi-symbol results.
	ReturnErrors bool `mapstructure:"return_errors" yaml:"return_errors" json:"return_errors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string `mapstructure:"host" yaml:"host" json:"host"`
	Port        int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin  string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec  int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Decode: DecodeConfig{
			MaxSymbols: 1,
		},
		Server: ServerConfig{
			Host:        "localhost",
			Port:        8080,
			CORSOrigin:  "*",
			MaxUploadMB: 50,
			TimeoutSec:  30,
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("invalid max_upload_mb %d", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec < 1 {
		return fmt.Errorf("invalid timeout_sec %d", c.Server.TimeoutSec)
	}
	if _, err := decode.ParseFormats(c.Decode.Formats); err != nil {
		return fmt.Errorf("invalid decode formats: %w", err)
	}
	return nil
}
