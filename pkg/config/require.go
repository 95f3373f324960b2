package config

import "fmt"

// Validate reports configuration that cannot work at all; main decides whether to exit.
func (c Config) Validate() error {
	if c.CatalogAPIURL == "" {
		return fmt.Errorf("CATALOG_API_URL is empty")
	}
	switch c.SessionBackend {
	case "memory", "sql":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("SESSION_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.SessionBackend == "sql" && c.DatabaseURL == "" {
		return fmt.Errorf("SESSION_BACKEND=sql requires DATABASE_URL")
	}
	return nil
}
