package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/tl_2023_us_cbsa.shp", cfg.Data.ShapefilePath)
	assert.Equal(t, "target_metros.txt", cfg.Data.TargetListPath)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.InDelta(t, 50.0, cfg.Proximity.DefaultRadiusMiles, 0.001)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocode.NominatimBaseURL)
	assert.InDelta(t, 1.0, cfg.Geocode.RateRPS, 0.001)
	assert.Equal(t, "geocode_cache.db", cfg.Geocode.CacheDSN)
	assert.Empty(t, cfg.Geocode.GoogleAPIKey)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
data:
  shapefile_path: /srv/data/cbsa.shp
log:
  level: debug
  format: console
server:
  port: 9090
proximity:
  default_radius_miles: 75
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/data/cbsa.shp", cfg.Data.ShapefilePath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 75.0, cfg.Proximity.DefaultRadiusMiles, 0.001)
	// Defaults still apply for unset values
	assert.Equal(t, "target_metros.txt", cfg.Data.TargetListPath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("METRO_LOG_LEVEL", "warn")
	t.Setenv("METRO_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("METRO_GEOCODE_GOOGLE_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.Geocode.GoogleAPIKey)
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

// validDefaults returns a Config that passes validation.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Data.ShapefilePath = "data/tl_2023_us_cbsa.shp"
	cfg.Server.Port = 5000
	cfg.Proximity.DefaultRadiusMiles = 50
	cfg.Geocode.RateRPS = 1.0
	return cfg
}

func TestValidate_AllPresent(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_MissingShapefilePath(t *testing.T) {
	cfg := validDefaults()
	cfg.Data.ShapefilePath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "data.shapefile_path is required")
}

func TestValidate_PortBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Server.Port = 0
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be between 1 and 65535")

	cfg.Server.Port = 70000
	err = cfg.Validate()
	assert.Error(t, err)

	cfg.Server.Port = 65535
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RadiusAndRate(t *testing.T) {
	cfg := validDefaults()
	cfg.Proximity.DefaultRadiusMiles = -1
	cfg.Geocode.RateRPS = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "proximity.default_radius_miles must be > 0")
	assert.Contains(t, err.Error(), "geocode.rate_rps must be > 0")
}
