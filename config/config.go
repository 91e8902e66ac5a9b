// Package config loads runtime configuration from an optional YAML file
// and PMCOPILOT_-prefixed environment variables, with environment taking
// precedence. Secrets such as API keys are environment-only.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Reasoning providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the root configuration of the copilot process.
type Config struct {
	Provider      string      `mapstructure:"provider"`
	Model         string      `mapstructure:"model"`
	APIKey        string      `mapstructure:"api_key"`
	MaxIterations int         `mapstructure:"max_iterations"`
	MaxPlanCycles int         `mapstructure:"max_plan_cycles"`
	Redis         RedisConfig `mapstructure:"redis"`
	Log           LogConfig   `mapstructure:"log"`
}

// RedisConfig configures the optional durable state store. An empty
// Addr keeps state in memory.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file path (optional, empty
// skips the file) and the environment, applies defaults and validates
// the result.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Every key needs a default so AutomaticEnv can resolve it during
	// Unmarshal.
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("model", "")
	v.SetDefault("api_key", "")
	v.SetDefault("max_iterations", 10)
	v.SetDefault("max_plan_cycles", 10)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("PMCOPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enum membership.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("provider must be %q or %q, got %q", ProviderOpenAI, ProviderAnthropic, c.Provider)
	}
	if c.MaxIterations < 1 || c.MaxIterations > 50 {
		return fmt.Errorf("max_iterations must be in [1,50], got %d", c.MaxIterations)
	}
	if c.MaxPlanCycles < 1 || c.MaxPlanCycles > 50 {
		return fmt.Errorf("max_plan_cycles must be in [1,50], got %d", c.MaxPlanCycles)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}
