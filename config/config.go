// Package config loads process configuration from the environment and cache
// profiles from YAML.
package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/kibblescan/sitecache/logger"
	"github.com/kibblescan/sitecache/server"
)

// Config is the full process configuration.
type Config struct {
	HTTP server.Config `envPrefix:"HTTP_"`
	Log  logger.Config `envPrefix:"LOG_"`

	// CatalogPath points at a product dataset JSON file. Empty uses the bundled dataset.
	CatalogPath string `env:"CATALOG_PATH"`

	// CacheProfilesPath points at a YAML file overriding the default cache roles.
	CacheProfilesPath string `env:"CACHE_PROFILES_PATH"`

	// CleanupSchedule is the cron spec of the proactive cache compaction job.
	CleanupSchedule string `env:"CACHE_CLEANUP_SCHEDULE" envDefault:"@every 1m"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads a .env file when one exists, then parses the environment.
func Load() (Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	return Parse()
}

// Parse parses the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}
