package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Groq       GroqConfig       `yaml:"groq" mapstructure:"groq"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Generate   RunConfig        `yaml:"generate" mapstructure:"generate"`
	Enrich     RunConfig        `yaml:"enrich" mapstructure:"enrich"`
	Contacts   RunConfig        `yaml:"contacts" mapstructure:"contacts"`
	Checkpoint CheckpointConfig `yaml:"checkpoint" mapstructure:"checkpoint"`
	Paths      PathsConfig      `yaml:"paths" mapstructure:"paths"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// GroqConfig holds Groq API settings. The compound models do live web
// search, which the lead pipelines depend on.
type GroqConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	Model        string `yaml:"model" mapstructure:"model"`
	ContactModel string `yaml:"contact_model" mapstructure:"contact_model"`
}

// AnthropicConfig holds Anthropic API settings for the alternative search
// provider.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// SearchConfig configures the shared search client.
type SearchConfig struct {
	Provider     string        `yaml:"provider" mapstructure:"provider"`
	RequestDelay time.Duration `yaml:"request_delay" mapstructure:"request_delay"`
	RetryDelay   time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
}

// RunConfig holds per-verb worker pool and retry settings.
type RunConfig struct {
	Workers       int `yaml:"workers" mapstructure:"workers"`
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts"`
}

// CheckpointConfig configures checkpoint persistence for the enrich run.
type CheckpointConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	Interval int    `yaml:"interval" mapstructure:"interval"`
}

// PathsConfig holds input/output locations.
type PathsConfig struct {
	Plan      string `yaml:"plan" mapstructure:"plan"`
	Input     string `yaml:"input" mapstructure:"input"`
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// StoreConfig configures the run-history store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
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
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credentials default empty so env-only values bind.
	v.SetDefault("groq.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "groq/compound-mini")
	v.SetDefault("groq.contact_model", "groq/compound")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("search.provider", "groq")
	v.SetDefault("search.request_delay", "2s")
	v.SetDefault("search.retry_delay", "10s")
	v.SetDefault("generate.workers", 3)
	v.SetDefault("generate.retry_attempts", 3)
	v.SetDefault("enrich.workers", 5)
	v.SetDefault("enrich.retry_attempts", 5)
	v.SetDefault("contacts.workers", 5)
	v.SetDefault("contacts.retry_attempts", 3)
	v.SetDefault("checkpoint.path", "output/enrichment_checkpoint.json")
	v.SetDefault("checkpoint.interval", 50)
	v.SetDefault("paths.plan", "config.json")
	v.SetDefault("paths.input", "input_leads.xlsx")
	v.SetDefault("paths.output_dir", "output")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "output/leadgen.db")
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
