// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// --- HTTP ---
	Port string `envconfig:"PORT" default:"8080"`

	// --- Database ---
	PostgresURL string `envconfig:"POSTGRES_URL" required:"true"`

	// --- Auth ---
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// --- payOS ---
	PayOSClientID    string `envconfig:"PAYOS_CLIENT_ID" required:"true"`
	PayOSAPIKey      string `envconfig:"PAYOS_API_KEY" required:"true"`
	PayOSChecksumKey string `envconfig:"PAYOS_CHECKSUM_KEY" required:"true"`
	PayOSReturnURL   string `envconfig:"PAYOS_RETURN_URL"`
	PayOSCancelURL   string `envconfig:"PAYOS_CANCEL_URL"`

	// --- Ledger reconciler ---
	// Cron schedule for the abandoned-intent sweep.
	ReconcileSchedule string `envconfig:"RECONCILE_SCHEDULE" default:"@every 5m"`
	// How long an intent may sit pending before the sweep touches it; must
	// comfortably exceed the longest plausible request duration.
	IntentAbandonAge time.Duration `envconfig:"INTENT_ABANDON_AGE" default:"15m"`

	// --- Logging ---
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func (c *Config) Validate() error {
	if c.IntentAbandonAge < time.Minute {
		return fmt.Errorf("INTENT_ABANDON_AGE must be at least 1m")
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
