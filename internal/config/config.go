package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/elgrid-dk/calc-cli/internal/engine"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig    `yaml:"store" mapstructure:"store"`
	Server  ServerConfig   `yaml:"server" mapstructure:"server"`
	Log     LogConfig      `yaml:"log" mapstructure:"log"`
	Batch   BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Rates   engine.Rates   `yaml:"rates" mapstructure:"rates"`
	Pricing engine.Pricing `yaml:"pricing" mapstructure:"pricing"`
}

// StoreConfig configures the catalog database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// BatchConfig configures batch estimation.
type BatchConfig struct {
	MaxConcurrentProjects int `yaml:"max_concurrent_projects" mapstructure:"max_concurrent_projects"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ELCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "elcalc.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 10)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("batch.max_concurrent_projects", 4)
	v.SetDefault("rates.hourly_rate", 495)
	v.SetDefault("rates.overhead_percentage", 12)
	v.SetDefault("rates.risk_percentage", 3)
	v.SetDefault("rates.margin_percentage", 25)
	v.SetDefault("rates.discount_percentage", 0)
	v.SetDefault("rates.vat_percentage", 25)
	v.SetDefault("pricing.panel_group_cost", 85)
	v.SetDefault("pricing.rcd_group_cost", 650)
	v.SetDefault("pricing.main_breaker_upgrade_cost", 2500)
	v.SetDefault("pricing.surge_protection_cost", 1200)
	v.SetDefault("pricing.enclosure_small_cost", 1500)
	v.SetDefault("pricing.enclosure_large_cost", 2800)
	v.SetDefault("pricing.enclosure_large_threshold", 12)
	v.SetDefault("pricing.main_breaker_threshold", 20)
	v.SetDefault("pricing.panel_seconds_per_group", 3600)
	v.SetDefault("pricing.panel_base_seconds", 7200)
	v.SetDefault("pricing.transport_cost_per_day", 350)
	v.SetDefault("pricing.special_tool_cost", 500)
	v.SetDefault("pricing.cable_price_per_meter", map[string]float64{
		"3G1.5": 6.5,
		"3G2.5": 8.5,
		"3G6":   24,
		"5G2.5": 14,
		"5G4":   22,
		"5G6":   32,
		"5G10":  48,
		"CAT6":  5.5,
	})
	v.SetDefault("pricing.default_cable_price", 8.5)
	v.SetDefault("pricing.default_cable_type", "3G2.5")
	v.SetDefault("pricing.cable_waste_factor", 1.10)
	v.SetDefault("pricing.default_component_seconds", 900)
	v.SetDefault("pricing.default_cable_meters", 3)
	v.SetDefault("pricing.default_material_cost", 100)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given run mode. Modes map to
// command groups: "calc" for local estimation, "serve" for the HTTP API,
// "catalog" for store maintenance, "batch" for concurrent runs.
func (c *Config) Validate(mode string) error {
	var problems []string

	rates := func() {
		if c.Rates.HourlyRate <= 0 {
			problems = append(problems, "rates.hourly_rate must be > 0")
		}
		pcts := []struct {
			name string
			val  float64
		}{
			{"rates.overhead_percentage", c.Rates.OverheadPct},
			{"rates.risk_percentage", c.Rates.RiskPct},
			{"rates.margin_percentage", c.Rates.MarginPct},
			{"rates.discount_percentage", c.Rates.DiscountPct},
			{"rates.vat_percentage", c.Rates.VATPct},
		}
		for _, p := range pcts {
			if p.val < 0 || p.val > 100 {
				problems = append(problems, p.name+" must be between 0 and 100")
			}
		}
	}
	store := func() {
		switch c.Store.Driver {
		case "sqlite":
			if c.Store.Path == "" {
				problems = append(problems, "store.path is required for the sqlite driver")
			}
		case "postgres":
			if c.Store.DatabaseURL == "" {
				problems = append(problems, "store.database_url is required for the postgres driver")
			}
		default:
			problems = append(problems, "store.driver must be sqlite or postgres")
		}
	}

	switch mode {
	case "calc":
		rates()
	case "batch":
		rates()
		if c.Batch.MaxConcurrentProjects < 1 || c.Batch.MaxConcurrentProjects > 50 {
			problems = append(problems, "batch.max_concurrent_projects must be between 1 and 50")
		}
	case "catalog":
		store()
	case "serve":
		rates()
		store()
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst < 1 {
			problems = append(problems, "server rate limit must allow at least one request")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
