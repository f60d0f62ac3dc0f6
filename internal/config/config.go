// Package config loads the bot configuration from an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eliseohh/onthisdaybot/internal/onthisday"
	"github.com/eliseohh/onthisdaybot/internal/translate"
)

// EnvConfigPath names the variable holding an explicit config file path.
const EnvConfigPath = "ONTHISDAY_CONFIG"

// Config holds all bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Feed      FeedConfig      `yaml:"feed"`
	Translate TranslateConfig `yaml:"translate"`
	Stats     StatsConfig     `yaml:"stats"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	LogLevel  string          `yaml:"log_level"`
	LogFormat string          `yaml:"log_format"` // text or json
}

type TelegramConfig struct {
	Token       string        `yaml:"token"`
	PollTimeout time.Duration `yaml:"poll_timeout"`
}

// FeedConfig points at the "on this day" REST feed.
type FeedConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
}

// TranslateConfig enables translation of event texts. Off by default.
type TranslateConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Source  string `yaml:"source"`
	Target  string `yaml:"target"`
}

// StatsConfig locates the usage database. An empty path disables it.
type StatsConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig sets the Prometheus listen address. Empty disables it.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Telegram: TelegramConfig{PollTimeout: 10 * time.Second},
		Feed: FeedConfig{
			BaseURL:   onthisday.DefaultBaseURL,
			UserAgent: onthisday.DefaultUserAgent,
		},
		Translate: TranslateConfig{
			BaseURL: translate.DefaultBaseURL,
			Source:  "ru",
			Target:  "en",
		},
		Stats:     StatsConfig{Path: "./onthisday.db"},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultSearchPaths returns the config file search order used when
// ONTHISDAY_CONFIG is unset.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "onthisday", "config.yaml"))
	}

	return append(paths, "/etc/onthisday/config.yaml")
}

// FindConfig locates a config file. An explicit path must exist. Otherwise
// the first existing DefaultSearchPaths entry is returned, or "" if none.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Load reads configuration from a YAML file on top of Default. ${VAR}
// references in the file are expanded from the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv resolves the config file from ONTHISDAY_CONFIG or the search
// paths, falls back to Default when none exists, then applies the
// TELEGRAM_TOKEN and LOG_LEVEL overrides.
func FromEnv() (*Config, string, error) {
	path, err := FindConfig(os.Getenv(EnvConfigPath))
	if err != nil {
		return nil, "", err
	}

	cfg := Default()
	if path != "" {
		if cfg, err = Load(path); err != nil {
			return nil, "", err
		}
	}

	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, path, nil
}

// Validate checks the settings needed to start the bot.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("telegram.token is required (set TELEGRAM_TOKEN)"))
	}
	if c.Telegram.PollTimeout <= 0 {
		errs = append(errs, fmt.Errorf("telegram.poll_timeout must be positive, got %s", c.Telegram.PollTimeout))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log_format %q (expected text or json)", c.LogFormat))
	}
	return errors.Join(errs...)
}
