package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chatstore.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: sqlite
  path: /tmp/chat.db
chat:
  provider: openai
  model: gpt-4o-mini
  instructions: "You are a helpful assistant."
  max_history_messages: 20
  streaming: true
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Backend != BackendSQLite {
		t.Errorf("backend = %q, want %q", cfg.Store.Backend, BackendSQLite)
	}
	if cfg.Store.Path != "/tmp/chat.db" {
		t.Errorf("path = %q", cfg.Store.Path)
	}
	if cfg.Chat.Provider != ProviderOpenAI {
		t.Errorf("provider = %q", cfg.Chat.Provider)
	}
	if cfg.Chat.MaxHistoryMessages != 20 {
		t.Errorf("max_history_messages = %d", cfg.Chat.MaxHistoryMessages)
	}
	if !cfg.Chat.Streaming {
		t.Error("streaming should be enabled")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Backend != BackendMemory {
		t.Errorf("backend = %q, want %q", cfg.Store.Backend, BackendMemory)
	}
	if cfg.Chat.Provider != ProviderMock {
		t.Errorf("provider = %q, want %q", cfg.Chat.Provider, ProviderMock)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("CHAT_DB_DIR", "/var/data")

	path := writeConfig(t, `
store:
  backend: sqlite
  path: ${CHAT_DB_DIR}/chat.db
chat:
  provider: mock
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Path != "/var/data/chat.db" {
		t.Errorf("path = %q, want /var/data/chat.db", cfg.Store.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.Store.Backend = "etcd" }, true},
		{"sqlite without path", func(c *Config) { c.Store.Backend = BackendSQLite }, true},
		{"postgres without dsn", func(c *Config) { c.Store.Backend = BackendPostgres }, true},
		{"postgres with dsn", func(c *Config) {
			c.Store.Backend = BackendPostgres
			c.Store.DSN = "postgres://localhost/chat"
		}, false},
		{"unknown provider", func(c *Config) { c.Chat.Provider = "cohere" }, true},
		{"negative window", func(c *Config) { c.Chat.MaxHistoryMessages = -1 }, true},
		{"unknown level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
