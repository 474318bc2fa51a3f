package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Proximity ProximityConfig `yaml:"proximity" mapstructure:"proximity"`
	Geocode   GeocodeConfig   `yaml:"geocode" mapstructure:"geocode"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the boundary dataset and the target metro list.
type DataConfig struct {
	ShapefilePath  string `yaml:"shapefile_path" mapstructure:"shapefile_path"`
	TargetListPath string `yaml:"target_list_path" mapstructure:"target_list_path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// ProximityConfig configures proximity query defaults.
type ProximityConfig struct {
	DefaultRadiusMiles float64 `yaml:"default_radius_miles" mapstructure:"default_radius_miles"`
}

// GeocodeConfig holds geocoding provider settings.
type GeocodeConfig struct {
	NominatimBaseURL string  `yaml:"nominatim_base_url" mapstructure:"nominatim_base_url"`
	GoogleAPIKey     string  `yaml:"google_api_key" mapstructure:"google_api_key"`
	RateRPS          float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
	CacheDSN         string  `yaml:"cache_dsn" mapstructure:"cache_dsn"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("METRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.shapefile_path", "data/tl_2023_us_cbsa.shp")
	v.SetDefault("data.target_list_path", "target_metros.txt")
	v.SetDefault("server.port", 5000)
	v.SetDefault("proximity.default_radius_miles", 50.0)
	v.SetDefault("geocode.nominatim_base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.google_api_key", "")
	v.SetDefault("geocode.rate_rps", 1.0)
	v.SetDefault("geocode.cache_dsn", "geocode_cache.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the configuration for values that would fail at runtime.
// All problems are reported at once rather than one per run.
func (c *Config) Validate() error {
	var problems []string

	if c.Data.ShapefilePath == "" {
		problems = append(problems, "data.shapefile_path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, "server.port must be between 1 and 65535")
	}
	if c.Proximity.DefaultRadiusMiles <= 0 {
		problems = append(problems, "proximity.default_radius_miles must be > 0")
	}
	if c.Geocode.RateRPS <= 0 {
		problems = append(problems, "geocode.rate_rps must be > 0")
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
