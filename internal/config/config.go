// Package config loads application configuration from file and environment
// and initializes the global logger.
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
	Feeds     FeedsConfig     `yaml:"feeds" mapstructure:"feeds"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Proximity ProximityConfig `yaml:"proximity" mapstructure:"proximity"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// FeedsConfig holds the source feed URLs.
type FeedsConfig struct {
	StationInformationURL string `yaml:"station_information_url" mapstructure:"station_information_url"`
	StationStatusURL      string `yaml:"station_status_url" mapstructure:"station_status_url"`
	CrashURL              string `yaml:"crash_url" mapstructure:"crash_url"`
}

// FetchConfig configures HTTP fetch behavior.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// DataConfig holds the local data file paths used as fetch fallbacks and as
// the hand-off between commands.
type DataConfig struct {
	CombinedStationsFile string `yaml:"combined_stations_file" mapstructure:"combined_stations_file"`
	CrashFile            string `yaml:"crash_file" mapstructure:"crash_file"`
	AnnotatedCrashFile   string `yaml:"annotated_crash_file" mapstructure:"annotated_crash_file"`
}

// ProximityConfig configures the nearest-station computation.
type ProximityConfig struct {
	// Index selects the nearest-neighbor strategy: "scan" or "grid".
	Index string `yaml:"index" mapstructure:"index"`
}

// StoreConfig configures the snapshot and run store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
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
	v.SetEnvPrefix("BIKESAFETY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("feeds.station_information_url", "https://gbfs.citibikenyc.com/gbfs/en/station_information.json")
	v.SetDefault("feeds.station_status_url", "https://gbfs.citibikenyc.com/gbfs/en/station_status.json")
	v.SetDefault("feeds.crash_url", "")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "bikesafety-cli/1.0")
	v.SetDefault("data.combined_stations_file", "citibike_combined_data.json")
	v.SetDefault("data.crash_file", "crash_data.json")
	v.SetDefault("data.annotated_crash_file", "crash_data_annotated.json")
	v.SetDefault("proximity.index", "scan")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "bikesafety.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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
