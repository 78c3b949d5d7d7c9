// Package config provides unified configuration for the walletgate
// gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (WALLETGATE_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the walletgate gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	Storage       StorageConfig       `yaml:"storage"`
	Network       NetworkConfig       `yaml:"network"`
	AccessControl AccessControlConfig `yaml:"access_control"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 30s
}

// AuthConfig holds authentication pipeline settings.
type AuthConfig struct {
	// TokenKey is the bearer-token verification key: a PEM public key
	// or an HMAC shared secret. Empty disables the token path, in which
	// case any request presenting a token is rejected as a server
	// misconfiguration.
	TokenKey     string `yaml:"token_key"`
	TokenKeyFile string `yaml:"token_key_file"` // _file variant for token_key

	// RateLimitPerMinute caps requests per authenticated subject.
	// Zero disables rate limiting.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	// BypassEndpoints skip authentication entirely.
	BypassEndpoints []string `yaml:"bypass_endpoints"`
}

// StorageConfig holds store backend settings.
type StorageConfig struct {
	Type     string         `yaml:"type"` // "memory" or "postgres", default: "memory"
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"` // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

// NetworkConfig holds Network header validation settings.
type NetworkConfig struct {
	Allowed []string `yaml:"allowed"` // default: mainnet, rinkeby
}

// AccessControlConfig holds CORS response header settings.
type AccessControlConfig struct {
	AllowOrigin  string   `yaml:"allow_origin"`  // default: "*"
	AllowHeaders []string `yaml:"allow_headers"` // default: Origin, X-Requested-With, Content-Type, Accept
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			BypassEndpoints: []string{"/healthz", "/readyz", "/metrics"},
		},
		Storage: StorageConfig{
			Type: "memory",
			Postgres: PostgresConfig{
				MaxConns: 25,
			},
		},
		Network: NetworkConfig{
			Allowed: []string{"mainnet", "rinkeby"},
		},
		AccessControl: AccessControlConfig{
			AllowOrigin:  "*",
			AllowHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
