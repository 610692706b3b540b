package app

import (
	"fmt"
	"strings"

	"github.com/vk/metareg/internal/protocol"
	"github.com/vk/metareg/internal/sanity"
	"github.com/vk/metareg/internal/tracing"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Manifests are files or directories with .hcl, .yaml or .yml language
	// manifests.
	Manifests []string `mapstructure:"manifests" yaml:"manifests"`
	Protocol  string   `mapstructure:"protocol" yaml:"protocol"`

	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`

	DumpPath      string `mapstructure:"dump_path" yaml:"dump_path"`
	DisableChecks bool   `mapstructure:"disable_checks" yaml:"disable_checks"`

	Tracing tracing.Config `mapstructure:"tracing" yaml:"tracing"`
}

// NewConfig fills in defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.Protocol == "" {
		cfg.Protocol = protocol.Current().String()
	}
	if _, err := protocol.Parse(cfg.Protocol); err != nil {
		return nil, err
	}

	if cfg.DumpPath == "" {
		cfg.DumpPath = sanity.DefaultDumpPath
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = tracing.DefaultConfig().ServiceName
	}
	return &cfg, nil
}

// Version returns the configured protocol version. NewConfig has validated it.
func (c *Config) Version() protocol.Version {
	v, err := protocol.Parse(c.Protocol)
	if err != nil {
		return protocol.Current()
	}
	return v
}
