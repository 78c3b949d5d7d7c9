package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	// If storage.type is "postgres", DSN or DSNFile must be set.
	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	// auth.rate_limit_per_minute must not be negative.
	if c.Auth.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("auth.rate_limit_per_minute must be >= 0, got %d", c.Auth.RateLimitPerMinute))
	}

	// network.allowed must not be empty.
	if len(c.Network.Allowed) == 0 {
		errs = append(errs, fmt.Errorf("network.allowed must list at least one network"))
	}

	return errors.Join(errs...)
}
