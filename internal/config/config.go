package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/preluded103/gridintel-cli/internal/engine"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	ENTSOE ENTSOEConfig `yaml:"entsoe" mapstructure:"entsoe"`
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ENTSOEConfig holds ENTSO-E Transparency Platform API settings.
type ENTSOEConfig struct {
	Token       string  `yaml:"token" mapstructure:"token"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// EngineConfig holds recommendation-engine overrides layered on top of
// the engine defaults.
type EngineConfig struct {
	Preset            string             `yaml:"preset" mapstructure:"preset"`
	Weights           map[string]float64 `yaml:"weights" mapstructure:"weights"`
	MinCapacityMW     float64            `yaml:"min_capacity_mw" mapstructure:"min_capacity_mw"`
	MaxDistanceKM     float64            `yaml:"max_distance_km" mapstructure:"max_distance_km"`
	MaxTimelineMonths int                `yaml:"max_timeline_months" mapstructure:"max_timeline_months"`
}

// BuildEngine constructs an engine from the defaults plus any overrides
// set in the file or environment. An invalid preset name is an error.
func (c EngineConfig) BuildEngine() (*engine.Engine, error) {
	e := engine.NewDefault()

	if c.Preset != "" {
		if err := e.ApplyPreset(c.Preset); err != nil {
			return nil, err
		}
	}

	update := engine.ConfigUpdate{Weights: c.Weights}
	if c.MinCapacityMW > 0 {
		update.MinCapacityMW = &c.MinCapacityMW
	}
	if c.MaxDistanceKM > 0 {
		update.MaxDistanceKM = &c.MaxDistanceKM
	}
	if c.MaxTimelineMonths > 0 {
		update.MaxTimelineMonths = &c.MaxTimelineMonths
	}
	e.UpdateConfig(update)

	return e, nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GRIDINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "gridintel.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("entsoe.base_url", "https://web-api.tp.entsoe.eu/api")
	v.SetDefault("entsoe.rate_per_sec", 2)
	v.SetDefault("entsoe.timeout_secs", 30)

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
