package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// chdirTemp moves into an empty temp dir so no config.yaml is found.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/roster.json", cfg.Registry.Source)
	assert.Equal(t, "", cfg.Registry.Format)
	assert.Equal(t, "roster", cfg.Registry.Table)
	assert.Equal(t, 30, cfg.Registry.TimeoutSecs)
	assert.Equal(t, 3, cfg.Registry.MaxRetries)
	assert.InDelta(t, 0.6, cfg.Matching.MinSimilarity, 0.001)
	assert.InDelta(t, 90.0, cfg.Matching.ExactConfidence, 0.001)
	assert.InDelta(t, 95.0, cfg.Matching.MultipleConfidence, 0.001)
	assert.Equal(t, 0, cfg.Batch.MaxConcurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 1000, cfg.Server.MaxBulkSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
registry:
  source: roster.csv
  table: practitioners
log:
  level: debug
  format: console
server:
  port: 9090
batch:
  max_concurrency: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "roster.csv", cfg.Registry.Source)
	assert.Equal(t, "practitioners", cfg.Registry.Table)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Batch.MaxConcurrency)
	// Defaults still apply for unset values
	assert.InDelta(t, 0.6, cfg.Matching.MinSimilarity, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
registry:
  source: roster.csv
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("ROSTER_REGISTRY_SOURCE", "sqlite://roster.db")
	t.Setenv("ROSTER_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "sqlite://roster.db", cfg.Registry.Source)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("ROSTER_SERVER_PORT", "3000")
	t.Setenv("ROSTER_MATCHING_MIN_SIMILARITY", "0.7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.InDelta(t, 0.7, cfg.Matching.MinSimilarity, 0.001)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("registry: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Registry.Source = "data/roster.json"
	cfg.Registry.TimeoutSecs = 30
	cfg.Matching.MinSimilarity = 0.6
	cfg.Matching.ExactConfidence = 90
	cfg.Matching.MultipleConfidence = 95
	cfg.Server.Port = 8080
	cfg.Server.MaxBulkSize = 1000
	return cfg
}

func TestValidateVerify_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("verify"))
}

func TestValidateVerify_MissingSource(t *testing.T) {
	cfg := validDefaults()
	cfg.Registry.Source = "  "

	err := cfg.Validate("verify")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "registry.source is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")

	// The verify mode does not care about the port.
	assert.NoError(t, cfg.Validate("verify"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateMatchingBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Matching.MinSimilarity = 1.0
	err := cfg.Validate("verify")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "min_similarity")

	cfg.Matching.MinSimilarity = 0.6
	cfg.Matching.ExactConfidence = 101
	err = cfg.Validate("verify")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exact_confidence")

	cfg.Matching.ExactConfidence = 90
	cfg.Matching.MultipleConfidence = -1
	err = cfg.Validate("verify")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "multiple_confidence")
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := validDefaults()
	cfg.Registry.Source = ""
	cfg.Batch.MaxConcurrency = 1000
	cfg.Server.Port = -1

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry.source is required")
	assert.Contains(t, err.Error(), "batch.max_concurrency")
	assert.Contains(t, err.Error(), "server.port")
}
