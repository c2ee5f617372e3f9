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
	StorTrack StorTrackConfig `yaml:"stortrack" mapstructure:"stortrack"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Pricing   PricingConfig   `yaml:"pricing" mapstructure:"pricing"`
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StorTrackConfig holds StorTrack API credentials and client settings.
type StorTrackConfig struct {
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	Username          string  `yaml:"username" mapstructure:"username"`
	Password          string  `yaml:"password" mapstructure:"password"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// StoreConfig configures the rate cache backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PricingConfig holds the paid provider's billing rates.
type PricingConfig struct {
	// DailyRate is the charge per distinct day of coverage purchased,
	// regardless of how many facilities that day spans.
	DailyRate float64 `yaml:"daily_rate" mapstructure:"daily_rate"`
}

// AnalysisConfig holds the business constants driving the comparison.
type AnalysisConfig struct {
	RadiusMiles    float64 `yaml:"radius_miles" mapstructure:"radius_miles"`
	LookbackMonths int     `yaml:"lookback_months" mapstructure:"lookback_months"`
	UnitType       string  `yaml:"unit_type" mapstructure:"unit_type"`

	// NeutralRank is the ranking score that contributes no adjustment.
	NeutralRank int `yaml:"neutral_rank" mapstructure:"neutral_rank"`
	// RankingStepPct is the signed percentage contributed per ranking point
	// above or below the neutral baseline.
	RankingStepPct float64 `yaml:"ranking_step_pct" mapstructure:"ranking_step_pct"`
	// MaxFactorPct bounds each manual adjustment factor (absolute value).
	MaxFactorPct float64 `yaml:"max_factor_pct" mapstructure:"max_factor_pct"`
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

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RCA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("stortrack.base_url", "https://api.stortrack.com/api/")
	v.SetDefault("stortrack.timeout_secs", 60)
	v.SetDefault("stortrack.requests_per_second", 2.0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "rates.db")
	v.SetDefault("pricing.daily_rate", 12.50)
	v.SetDefault("analysis.radius_miles", 5.0)
	v.SetDefault("analysis.lookback_months", 12)
	v.SetDefault("analysis.unit_type", "Unit")
	v.SetDefault("analysis.neutral_rank", 3)
	v.SetDefault("analysis.ranking_step_pct", 1.0)
	v.SetDefault("analysis.max_factor_pct", 50.0)
	v.SetDefault("server.port", 8080)
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
