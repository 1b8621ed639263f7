package main

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is read from an optional YAML file with environment overrides.
type Config struct {
	BaseURL       string        `yaml:"base_url" env:"SYNCBOX_BASE_URL"`
	Token         string        `yaml:"token" env:"SYNCBOX_TOKEN"`
	DBPath        string        `yaml:"db_path" env:"SYNCBOX_DB_PATH" env-default:"syncbox.db"`
	DrainInterval time.Duration `yaml:"drain_interval" env:"SYNCBOX_DRAIN_INTERVAL" env-default:"30s"`
	ItemDelay     time.Duration `yaml:"item_delay" env:"SYNCBOX_ITEM_DELAY" env-default:"100ms"`
	MetricsAddr   string        `yaml:"metrics_addr" env:"SYNCBOX_METRICS_ADDR" env-default:":9109"`
	// StrictRetries classifies 4xx rejections as permanent instead of
	// spending the retry budget on them.
	StrictRetries bool `yaml:"strict_retries" env:"SYNCBOX_STRICT_RETRIES" env-default:"false"`
}

func loadConfig() (Config, error) {
	var cfg Config

	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configPath, err)
		}

		return cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config from environment: %w", err)
	}

	return cfg, nil
}
