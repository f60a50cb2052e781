package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds connection settings shared by all commands. Values come
// from the environment and can be overridden per invocation by the
// corresponding persistent flags.
type Config struct {
	// DB is the local snapshot database path.
	DB string `env:"ENVELOPE_DB" envDefault:"envelope.db"`

	// RemoteDB is the shared household document database path. Empty
	// means the device works offline and sync is a no-op.
	RemoteDB string `env:"ENVELOPE_REMOTE_DB"`

	// Household identifies the household this device belongs to.
	Household string `env:"ENVELOPE_HOUSEHOLD" envDefault:"household-1"`

	// User identifies this device's user for assignment audit metadata.
	User string `env:"ENVELOPE_USER" envDefault:"user-1"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
