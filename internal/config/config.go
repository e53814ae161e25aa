// Package config loads gateway configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from YAML.
type Config struct {
	ListenAddr      string        `yaml:"listen_addr" mapstructure:"listen_addr"`
	DatabasePath    string        `yaml:"database_path" mapstructure:"database_path"`
	BotToken        string        `yaml:"bot_token" mapstructure:"bot_token"`
	CacheTTL        time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	PageCeiling     int           `yaml:"page_ceiling" mapstructure:"page_ceiling"`
	HistoryPageSize int           `yaml:"history_page_size" mapstructure:"history_page_size"`
	APIRateLimit    float64       `yaml:"api_rate_limit" mapstructure:"api_rate_limit"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// Load reads configuration from the given path, or from the default
// locations (./slack-gateway.yaml, ~/.config/slack-gateway/config.yaml)
// when path is empty. Missing config files are not an error; defaults and
// environment variables (SLACK_GATEWAY_* plus SLACK_BOT_TOKEN) apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8090")
	v.SetDefault("database_path", "./slack-gateway.db")
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("page_ceiling", 50)
	v.SetDefault("history_page_size", 30)
	v.SetDefault("api_rate_limit", 20.0)
	v.SetDefault("allowed_origins", []string{"*"})

	v.SetEnvPrefix("SLACK_GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The bot token also answers to its conventional variable name.
	if err := v.BindEnv("bot_token", "SLACK_GATEWAY_BOT_TOKEN", "SLACK_BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("slack-gateway")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/slack-gateway")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.PageCeiling <= 0 {
		return fmt.Errorf("page_ceiling must be positive, got %d", c.PageCeiling)
	}
	if c.HistoryPageSize <= 0 {
		return fmt.Errorf("history_page_size must be positive, got %d", c.HistoryPageSize)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %s", c.CacheTTL)
	}
	return nil
}
