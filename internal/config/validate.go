package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks that the configuration required for the given mode is
// present. Modes: "store" (any command touching the database), "serve",
// "entsoe" (commands that call the Transparency Platform).
func (c *Config) Validate(mode string) error {
	var missing []string

	switch mode {
	case "store":
		missing = append(missing, c.validateStore()...)
	case "serve":
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
	case "entsoe":
		if c.ENTSOE.Token == "" {
			missing = append(missing, "entsoe.token is required")
		}
		if c.ENTSOE.RatePerSec <= 0 {
			missing = append(missing, "entsoe.rate_per_sec must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(missing) > 0 {
		return eris.Errorf("config: %s", strings.Join(missing, "; "))
	}
	return nil
}

func (c *Config) validateStore() []string {
	var missing []string
	switch c.Store.Driver {
	case "postgres":
		if c.Store.DatabaseURL == "" {
			missing = append(missing, "store.database_url is required for the postgres driver")
		}
	case "sqlite":
		if c.Store.SQLitePath == "" {
			missing = append(missing, "store.sqlite_path is required for the sqlite driver")
		}
	default:
		missing = append(missing, "store.driver must be postgres or sqlite")
	}
	return missing
}
