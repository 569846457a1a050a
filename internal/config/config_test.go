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

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "elcalc.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Server.RateLimitBurst)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrentProjects)
	assert.Equal(t, 495.0, cfg.Rates.HourlyRate)
	assert.Equal(t, 12.0, cfg.Rates.OverheadPct)
	assert.Equal(t, 3.0, cfg.Rates.RiskPct)
	assert.Equal(t, 25.0, cfg.Rates.MarginPct)
	assert.Equal(t, 0.0, cfg.Rates.DiscountPct)
	assert.Equal(t, 25.0, cfg.Rates.VATPct)
	assert.Equal(t, 85.0, cfg.Pricing.PanelGroupCost)
	assert.Equal(t, 650.0, cfg.Pricing.RCDGroupCost)
	assert.Equal(t, 900.0, cfg.Pricing.DefaultComponentSeconds)
	assert.Equal(t, "3G2.5", cfg.Pricing.DefaultCableType)
	assert.InDelta(t, 8.5, cfg.Pricing.CablePricePerMeter["3G2.5"], 0.001)
	assert.InDelta(t, 32, cfg.Pricing.CablePricePerMeter["5G6"], 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/elcalc
log:
  level: debug
  format: console
server:
  port: 9090
rates:
  hourly_rate: 525
  margin_percentage: 30
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 525.0, cfg.Rates.HourlyRate)
	assert.Equal(t, 30.0, cfg.Rates.MarginPct)
	// Defaults still apply for unset values
	assert.Equal(t, 12.0, cfg.Rates.OverheadPct)
	assert.Equal(t, 85.0, cfg.Pricing.PanelGroupCost)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("ELCALC_STORE_DRIVER", "postgres")
	t.Setenv("ELCALC_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("ELCALC_SERVER_PORT", "3000")
	t.Setenv("ELCALC_RATES_HOURLY_RATE", "550")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 550.0, cfg.Rates.HourlyRate)
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
	cfg.Store.Driver = "sqlite"
	cfg.Store.Path = "elcalc.db"
	cfg.Server.Port = 8080
	cfg.Server.RateLimitRPS = 10
	cfg.Server.RateLimitBurst = 20
	cfg.Batch.MaxConcurrentProjects = 4
	cfg.Rates.HourlyRate = 495
	cfg.Rates.OverheadPct = 12
	cfg.Rates.RiskPct = 3
	cfg.Rates.MarginPct = 25
	cfg.Rates.VATPct = 25
	return cfg
}

func TestValidateCalc(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("calc"))

	cfg.Rates.HourlyRate = 0
	err := cfg.Validate("calc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rates.hourly_rate must be > 0")
}

func TestValidatePercentageBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Rates.MarginPct = 101
	err := cfg.Validate("calc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rates.margin_percentage must be between 0 and 100")

	cfg.Rates.MarginPct = 25
	cfg.Rates.DiscountPct = -1
	err = cfg.Validate("calc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rates.discount_percentage")
}

func TestValidateCatalogStore(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("catalog"))

	cfg.Store.Path = ""
	err := cfg.Validate("catalog")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.path is required")

	cfg.Store.Driver = "postgres"
	err = cfg.Validate("catalog")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "postgres://localhost/elcalc"
	assert.NoError(t, cfg.Validate("catalog"))

	cfg.Store.Driver = "oracle"
	err = cfg.Validate("catalog")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")
}

func TestValidateServe(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("serve"))

	cfg.Server.Port = 0
	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")

	cfg.Server.Port = 8080
	cfg.Server.RateLimitBurst = 0
	err = cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestValidateBatchConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.MaxConcurrentProjects = 0
	err := cfg.Validate("batch")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "batch.max_concurrent_projects must be between 1 and 50")

	cfg.Batch.MaxConcurrentProjects = 51
	err = cfg.Validate("batch")
	assert.Error(t, err)

	cfg.Batch.MaxConcurrentProjects = 50
	assert.NoError(t, cfg.Validate("batch"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
