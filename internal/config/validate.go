package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %v)", c.Auth.AccessTokenTTL)
	}

	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must be >= 0 (got %v)", c.RateLimit.RPS)
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate_limit.burst must be >= 1 when limiting is enabled (got %d)", c.RateLimit.Burst)
	}

	if err := c.Profile.validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	if c.MCP.Enabled && !strings.HasPrefix(c.MCP.Path, "/") {
		return fmt.Errorf("mcp.path must start with / (got %q)", c.MCP.Path)
	}

	return nil
}

func (p *ProfileConfig) validate() error {
	if p.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be > 0 (got %v)", p.CacheTTL)
	}
	if p.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be > 0 (got %d)", p.CacheSize)
	}
	if p.DefaultHistoryLimit <= 0 {
		return fmt.Errorf("default_history_limit must be > 0 (got %d)", p.DefaultHistoryLimit)
	}
	if p.MaxHistoryLimit < p.DefaultHistoryLimit {
		return fmt.Errorf("max_history_limit must be >= default_history_limit (got %d < %d)",
			p.MaxHistoryLimit, p.DefaultHistoryLimit)
	}
	return nil
}
