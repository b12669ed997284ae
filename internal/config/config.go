// Package config loads runtime settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the probe binary reads.
type Config struct {
	// CatalogPath is a YAML service catalog. Empty means the embedded one.
	CatalogPath string
	// UserServiceURL overrides the base URL of the users service.
	UserServiceURL string

	AccessTTL   time.Duration
	RefreshLead time.Duration
	HTTPTimeout time.Duration

	LogLevel string
	LogFile  string

	// MetricsAddr enables the /metrics listener when set.
	MetricsAddr string
}

// Defaults.
const (
	DefaultAccessTTL   = 15 * time.Minute
	DefaultRefreshLead = time.Minute
	DefaultHTTPTimeout = 30 * time.Second
	DefaultLogLevel    = "info"
)

// Load reads .env if present, then PROBE_* variables.
func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	cfg := &Config{
		CatalogPath:    os.Getenv("PROBE_CATALOG"),
		UserServiceURL: strings.TrimRight(os.Getenv("PROBE_USER_SERVICE_URL"), "/"),
		LogLevel:       getEnv("PROBE_LOG_LEVEL", DefaultLogLevel),
		LogFile:        getEnv("PROBE_LOG_FILE", defaultLogFile()),
		MetricsAddr:    os.Getenv("PROBE_METRICS_ADDR"),
	}

	var err error
	if cfg.AccessTTL, err = getDuration("PROBE_ACCESS_TTL", DefaultAccessTTL); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.RefreshLead, err = getDuration("PROBE_REFRESH_LEAD", DefaultRefreshLead); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.HTTPTimeout, err = getDuration("PROBE_HTTP_TIMEOUT", DefaultHTTPTimeout); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AccessTTL <= 0 {
		return fmt.Errorf("invalid PROBE_ACCESS_TTL: %s must be positive", c.AccessTTL)
	}
	if c.RefreshLead <= 0 || c.RefreshLead >= c.AccessTTL {
		return fmt.Errorf("invalid PROBE_REFRESH_LEAD: %s must be between 0 and PROBE_ACCESS_TTL (%s)", c.RefreshLead, c.AccessTTL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid PROBE_HTTP_TIMEOUT: %s must be positive", c.HTTPTimeout)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "probe.log")
	}
	return filepath.Join(home, ".probe", "probe.log")
}
