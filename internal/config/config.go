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
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Registry  RegistryConfig  `yaml:"registry" mapstructure:"registry"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings for header mapping.
type AnthropicConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	MaxTokens         int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// RegistryConfig locates the canonical parameter registry. An explicit Path
// wins over SearchPaths.
type RegistryConfig struct {
	Path        string   `yaml:"path" mapstructure:"path"`
	SearchPaths []string `yaml:"search_paths" mapstructure:"search_paths"`
}

// IngestConfig configures header detection and mapping samples.
type IngestConfig struct {
	ScanLimit  int `yaml:"scan_limit" mapstructure:"scan_limit"`
	SampleRows int `yaml:"sample_rows" mapstructure:"sample_rows"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port             int      `yaml:"port" mapstructure:"port"`
	TempDir          string   `yaml:"temp_dir" mapstructure:"temp_dir"`
	MaxUploadMB      int64    `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	ParseTimeoutSecs int      `yaml:"parse_timeout_secs" mapstructure:"parse_timeout_secs"`
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// BatchConfig configures multi-file runs. MaxAttempts retries a file whose
// mapping call failed transiently; 1 disables retries.
type BatchConfig struct {
	Concurrency    int `yaml:"concurrency" mapstructure:"concurrency"`
	MaxAttempts    int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoff int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
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
	v.SetEnvPrefix("MAPPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.requests_per_minute", 0)
	v.SetDefault("registry.path", "")
	v.SetDefault("registry.search_paths", []string{
		"backend/canonical_registry.json",
		"canonical_registry.json",
		"/app/backend/canonical_registry.json",
		"/app/canonical_registry.json",
	})
	v.SetDefault("ingest.scan_limit", 20)
	v.SetDefault("ingest.sample_rows", 3)
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.temp_dir", "")
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.parse_timeout_secs", 120)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.max_attempts", 3)
	v.SetDefault("batch.initial_backoff_ms", 1000)
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

// Validate checks the settings a command mode depends on. Offline runs do
// not need an API key.
func (c *Config) Validate(mode string, offline bool) error {
	var problems []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.MaxUploadMB <= 0 {
			problems = append(problems, "server.max_upload_mb must be > 0")
		}
		if c.Server.ParseTimeoutSecs <= 0 {
			problems = append(problems, "server.parse_timeout_secs must be > 0")
		}
	case "parse":
	case "batch":
		if c.Batch.Concurrency < 1 || c.Batch.Concurrency > 64 {
			problems = append(problems, "batch.concurrency must be between 1 and 64")
		}
		if c.Batch.MaxAttempts < 1 {
			problems = append(problems, "batch.max_attempts must be >= 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if !offline {
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
		if c.Anthropic.Model == "" {
			problems = append(problems, "anthropic.model is required")
		}
		if c.Anthropic.MaxTokens <= 0 {
			problems = append(problems, "anthropic.max_tokens must be > 0")
		}
	}
	if c.Ingest.ScanLimit <= 0 {
		problems = append(problems, "ingest.scan_limit must be > 0")
	}
	if c.Ingest.SampleRows <= 0 {
		problems = append(problems, "ingest.sample_rows must be > 0")
	}
	if c.Registry.Path == "" && len(c.Registry.SearchPaths) == 0 {
		problems = append(problems, "registry.path or registry.search_paths is required")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(problems, "; "))
	}
	return nil
}

// RegistryPaths returns the ordered list of registry locations to try.
func (c *Config) RegistryPaths() []string {
	if c.Registry.Path != "" {
		return []string{c.Registry.Path}
	}
	return c.Registry.SearchPaths
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
