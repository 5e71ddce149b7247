// Package config assembles the open2fa configuration once at process
// start. Components receive the resulting Config by reference and never
// read environment state themselves.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Names of the files kept under the open2fa directory.
const (
	SecretsFileName = "secrets.json"
	UUIDFileName    = "open2fa.uuid"
)

// Config holds every tunable the client consumes.
type Config struct {
	// Dir is the open2fa state directory. Defaults to ~/.open2fa.
	Dir string `env:"OPEN2FA_DIR"`

	// UUID, when set, overrides the UUID persisted on disk.
	UUID string `env:"OPEN2FA_UUID"`

	// APIURL is the base URL of the remote sync API.
	APIURL string `env:"OPEN2FA_API_URL" envDefault:"https://open2fa.liberfy.ai/api/v1"`

	// Timeout bounds every remote HTTP call.
	Timeout time.Duration `env:"OPEN2FA_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config and fills in the default
// directory when OPEN2FA_DIR is unset.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.Dir = filepath.Join(home, ".open2fa")
	}
	return cfg, nil
}

// SecretsFile returns the path of the local secrets file.
func (c *Config) SecretsFile() string {
	return filepath.Join(c.Dir, SecretsFileName)
}

// UUIDFile returns the path of the persisted identity file.
func (c *Config) UUIDFile() string {
	return filepath.Join(c.Dir, UUIDFileName)
}
