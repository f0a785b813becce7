package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file or database configuration.
const (
	EnvDatabaseURL          = "REMOTEWATER_DATABASE_URL"
	EnvRegenerationSchedule = "REMOTEWATER_REGENERATION_SCHEDULE"
)

// LoadEnvFiles loads KEY=value pairs from the given dotenv files into the process
// environment. Missing files are skipped and variables that are already set win.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnvOverrides copies REMOTEWATER_* variables over the loaded configuration.
func ApplyEnvOverrides(c *ConfigData) {
	if url := os.Getenv(EnvDatabaseURL); url != "" {
		c.Storage.Postgres = &PostgresData{ConnectionString: url}
	}
	if schedule := os.Getenv(EnvRegenerationSchedule); schedule != "" {
		c.Regeneration.Schedule = schedule
	}
}
