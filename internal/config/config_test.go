package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every PROBE_* variable for the test. t.Chdir keeps a stray
// .env in the package directory out of the way.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range []string{
		"PROBE_CATALOG", "PROBE_USER_SERVICE_URL", "PROBE_ACCESS_TTL",
		"PROBE_REFRESH_LEAD", "PROBE_HTTP_TIMEOUT", "PROBE_LOG_LEVEL",
		"PROBE_LOG_FILE", "PROBE_METRICS_ADDR",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "/home/ada")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, time.Minute, cfg.RefreshLead)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join("/home/ada", ".probe", "probe.log"), cfg.LogFile)
	assert.Empty(t, cfg.CatalogPath)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROBE_CATALOG", "/etc/probe/catalog.yaml")
	t.Setenv("PROBE_USER_SERVICE_URL", "http://auth.local:3000/")
	t.Setenv("PROBE_ACCESS_TTL", "2m")
	t.Setenv("PROBE_REFRESH_LEAD", "30s")
	t.Setenv("PROBE_HTTP_TIMEOUT", "5s")
	t.Setenv("PROBE_LOG_LEVEL", "debug")
	t.Setenv("PROBE_LOG_FILE", "/tmp/p.log")
	t.Setenv("PROBE_METRICS_ADDR", ":9464")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &Config{
		CatalogPath:    "/etc/probe/catalog.yaml",
		UserServiceURL: "http://auth.local:3000",
		AccessTTL:      2 * time.Minute,
		RefreshLead:    30 * time.Second,
		HTTPTimeout:    5 * time.Second,
		LogLevel:       "debug",
		LogFile:        "/tmp/p.log",
		MetricsAddr:    ":9464",
	}, cfg)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("PROBE_METRICS_ADDR"))
	require.NoError(t, os.WriteFile(".env", []byte("PROBE_METRICS_ADDR=:9999\nPROBE_LOG_LEVEL=warn\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.MetricsAddr)
	// Variables already in the environment win over .env, even when empty.
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad ttl", map[string]string{"PROBE_ACCESS_TTL": "soon"}, "PROBE_ACCESS_TTL"},
		{"zero ttl", map[string]string{"PROBE_ACCESS_TTL": "0s"}, "PROBE_ACCESS_TTL"},
		{"lead equals ttl", map[string]string{"PROBE_ACCESS_TTL": "1m", "PROBE_REFRESH_LEAD": "1m"}, "PROBE_REFRESH_LEAD"},
		{"negative lead", map[string]string{"PROBE_REFRESH_LEAD": "-1s"}, "PROBE_REFRESH_LEAD"},
		{"bad timeout", map[string]string{"PROBE_HTTP_TIMEOUT": "0s"}, "PROBE_HTTP_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
