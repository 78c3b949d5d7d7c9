package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("read timeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("storage type = %q, want memory", cfg.Storage.Type)
	}
	if cfg.AccessControl.AllowOrigin != "*" {
		t.Errorf("allow origin = %q, want *", cfg.AccessControl.AllowOrigin)
	}
	if !cfg.Observability.Metrics.Enabled {
		t.Error("metrics not enabled by default")
	}
	if len(cfg.Network.Allowed) != 2 {
		t.Errorf("allowed networks = %v", cfg.Network.Allowed)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
server:
  port: 9999
auth:
  token_key: file-secret
  rate_limit_per_minute: 60
storage:
  type: postgres
  postgres:
    dsn: postgres://localhost/walletgate
network:
  allowed: [mainnet]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Auth.TokenKey != "file-secret" {
		t.Errorf("token key = %q", cfg.Auth.TokenKey)
	}
	if cfg.Auth.RateLimitPerMinute != 60 {
		t.Errorf("rate limit = %d", cfg.Auth.RateLimitPerMinute)
	}
	if cfg.Storage.Type != "postgres" {
		t.Errorf("storage type = %q", cfg.Storage.Type)
	}
	// Unset fields keep their defaults.
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("write timeout = %v, want default", cfg.Server.WriteTimeout)
	}
	if cfg.Storage.Postgres.MaxConns != 25 {
		t.Errorf("max conns = %d, want default", cfg.Storage.Postgres.MaxConns)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
server:
  port: 9999
`)
	t.Setenv("WALLETGATE_PORT", "7777")
	t.Setenv("WALLETGATE_TOKEN_KEY", "env-secret")
	t.Setenv("WALLETGATE_NETWORKS", "mainnet, ropsten")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want the env override", cfg.Server.Port)
	}
	if cfg.Auth.TokenKey != "env-secret" {
		t.Errorf("token key = %q", cfg.Auth.TokenKey)
	}
	if len(cfg.Network.Allowed) != 2 || cfg.Network.Allowed[1] != "ropsten" {
		t.Errorf("allowed networks = %v", cfg.Network.Allowed)
	}
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "server:\n  port: 6543\n")
	t.Setenv("WALLETGATE_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if cfg.Server.Port != 6543 {
		t.Errorf("port = %d, want 6543", cfg.Server.Port)
	}
}

func TestLoad_FileReferences(t *testing.T) {
	dir := t.TempDir()
	secretPath := writeFile(t, dir, "token_key", "  secret-from-file\n")
	dsnPath := writeFile(t, dir, "dsn", "postgres://secret/db\n")
	cfgPath := writeFile(t, dir, "config.yaml", `
auth:
  token_key_file: `+secretPath+`
storage:
  type: postgres
  postgres:
    dsn_file: `+dsnPath+`
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if cfg.Auth.TokenKey != "secret-from-file" {
		t.Errorf("token key = %q, want trimmed file content", cfg.Auth.TokenKey)
	}
	if cfg.Storage.Postgres.DSN != "postgres://secret/db" {
		t.Errorf("dsn = %q", cfg.Storage.Postgres.DSN)
	}
}

func TestLoad_DirectValueWinsOverFileReference(t *testing.T) {
	dir := t.TempDir()
	secretPath := writeFile(t, dir, "token_key", "from-file")
	cfgPath := writeFile(t, dir, "config.yaml", `
auth:
  token_key: direct
  token_key_file: `+secretPath+`
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if cfg.Auth.TokenKey != "direct" {
		t.Errorf("token key = %q, want the direct value", cfg.Auth.TokenKey)
	}
}

func TestLoad_MissingSecretFile(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "config.yaml", `
auth:
  token_key_file: /nonexistent/token_key
`)

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("expected error for missing secret file")
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"unknown storage", func(c *Config) { c.Storage.Type = "redis" }, "storage.type"},
		{"postgres without dsn", func(c *Config) { c.Storage.Type = "postgres" }, "storage.postgres.dsn"},
		{"negative rate limit", func(c *Config) { c.Auth.RateLimitPerMinute = -1 }, "rate_limit_per_minute"},
		{"no networks", func(c *Config) { c.Network.Allowed = nil }, "network.allowed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}
