// Package config loads YAML wiring files for chatstore hosts.
//
// The library packages are configured programmatically via functional
// options; this package exists for hosts (examples, services) that want a
// declarative file selecting the history backend, model provider and
// logging setup. Environment variables in path and DSN fields are expanded
// on load so secrets can stay out of the file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store backends selectable from a config file.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendKV       = "kv"
)

// Model providers selectable from a config file.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// StoreConfig selects and parameterizes the history backend.
type StoreConfig struct {
	// Backend is one of memory, sqlite, postgres, kv.
	Backend string `yaml:"backend"`

	// Path is the database file location (sqlite). Supports ${ENV} expansion.
	Path string `yaml:"path,omitempty"`

	// DSN is the connection string (postgres, kv). Supports ${ENV} expansion.
	DSN string `yaml:"dsn,omitempty"`

	// Prefix namespaces stored keys (kv).
	Prefix string `yaml:"prefix,omitempty"`
}

// ChatConfig parameterizes the round engine and model.
type ChatConfig struct {
	// Provider is one of openai, anthropic, mock.
	Provider string `yaml:"provider"`

	// Model is the provider-specific model name. Empty selects the
	// provider's default.
	Model string `yaml:"model,omitempty"`

	// Instructions is the system prompt template.
	Instructions string `yaml:"instructions,omitempty"`

	// MaxHistoryMessages caps the history window per model request.
	// 0 sends the full transcript.
	MaxHistoryMessages int `yaml:"max_history_messages,omitempty"`

	// Streaming toggles partial response forwarding.
	Streaming bool `yaml:"streaming"`
}

// LoggingConfig parameterizes structured logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`

	// Format is json or text.
	Format string `yaml:"format,omitempty"`
}

// Config is the root of a chatstore host configuration file.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Chat    ChatConfig    `yaml:"chat"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns a configuration with in-memory storage, a mock model and
// info level JSON logging.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Backend: BackendMemory},
		Chat: ChatConfig{
			Provider:  ProviderMock,
			Streaming: true,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads and validates a YAML configuration file. Unset fields fall back
// to Default() values; ${ENV} references in Path and DSN are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Store.Path = os.ExpandEnv(cfg.Store.Path)
	cfg.Store.DSN = os.ExpandEnv(cfg.Store.DSN)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks enum fields and backend-specific requirements.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendKV:
	case BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store backend %q requires a path", c.Store.Backend)
		}
	case BackendPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store backend %q requires a dsn", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}

	switch c.Chat.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderMock:
	default:
		return fmt.Errorf("unknown chat provider: %q", c.Chat.Provider)
	}

	if c.Chat.MaxHistoryMessages < 0 {
		return fmt.Errorf("max_history_messages must not be negative")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log format: %q", c.Logging.Format)
	}

	return nil
}
