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
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Matching MatchingConfig `yaml:"matching" mapstructure:"matching"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// RegistryConfig locates the practitioner roster.
type RegistryConfig struct {
	// Source is a file path or URL (http, https, ftp, sqlite, postgres).
	Source string `yaml:"source" mapstructure:"source"`
	// Format overrides format detection (json, csv, xlsx, yaml, sqlite, postgres).
	Format      string `yaml:"format" mapstructure:"format"`
	Table       string `yaml:"table" mapstructure:"table"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// MatchingConfig tunes candidate filtering and verdict classification.
type MatchingConfig struct {
	MinSimilarity      float64 `yaml:"min_similarity" mapstructure:"min_similarity"`
	ExactConfidence    float64 `yaml:"exact_confidence" mapstructure:"exact_confidence"`
	MultipleConfidence float64 `yaml:"multiple_confidence" mapstructure:"multiple_confidence"`
}

// BatchConfig configures bulk verification.
type BatchConfig struct {
	// MaxConcurrency bounds parallel verifications; 0 means one per CPU.
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxBulkSize    int      `yaml:"max_bulk_size" mapstructure:"max_bulk_size"`
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
	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("registry.source", "data/roster.json")
	v.SetDefault("registry.format", "")
	v.SetDefault("registry.table", "roster")
	v.SetDefault("registry.sheet", "")
	v.SetDefault("registry.timeout_secs", 30)
	v.SetDefault("registry.max_retries", 3)
	v.SetDefault("matching.min_similarity", 0.6)
	v.SetDefault("matching.exact_confidence", 90.0)
	v.SetDefault("matching.multiple_confidence", 95.0)
	v.SetDefault("batch.max_concurrency", 0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_bulk_size", 1000)
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

// Validate checks the settings a command mode depends on. Modes are
// "verify" (CLI verification and lookups) and "serve" (HTTP API).
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "verify":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.MaxBulkSize <= 0 {
			problems = append(problems, "server.max_bulk_size must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if strings.TrimSpace(c.Registry.Source) == "" {
		problems = append(problems, "registry.source is required")
	}
	if c.Registry.TimeoutSecs < 0 {
		problems = append(problems, "registry.timeout_secs must be >= 0")
	}
	if c.Matching.MinSimilarity < 0 || c.Matching.MinSimilarity >= 1 {
		problems = append(problems, "matching.min_similarity must be in [0, 1)")
	}
	if c.Matching.ExactConfidence < 0 || c.Matching.ExactConfidence > 100 {
		problems = append(problems, "matching.exact_confidence must be in [0, 100]")
	}
	if c.Matching.MultipleConfidence < 0 || c.Matching.MultipleConfidence > 100 {
		problems = append(problems, "matching.multiple_confidence must be in [0, 100]")
	}
	if c.Batch.MaxConcurrency < 0 || c.Batch.MaxConcurrency > 256 {
		problems = append(problems, "batch.max_concurrency must be between 0 and 256")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
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
