package engine

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines alarm engine tuning.
type Config struct {
	IntervalMs        int    `yaml:"interval_ms"`
	Separator         string `yaml:"separator"`
	QueueSize         int    `yaml:"queue_size"`
	Workers           int    `yaml:"workers"`
	DispatchTimeoutMs int    `yaml:"dispatch_timeout_ms"`
}

// LoadConfig loads engine config from yaml or env.
func LoadConfig() (Config, error) {
	cfg := Config{
		IntervalMs:        getenvIntDefault("ALERT_ENGINE_INTERVAL_MS", 5000),
		Separator:         getenvDefault("ALERT_ENGINE_SEPARATOR", "."),
		QueueSize:         getenvIntDefault("ALERT_ENGINE_QUEUE_SIZE", 64),
		Workers:           getenvIntDefault("ALERT_ENGINE_WORKERS", 1),
		DispatchTimeoutMs: getenvIntDefault("ALERT_ENGINE_DISPATCH_TIMEOUT_MS", 10000),
	}

	if path := os.Getenv("ALERT_ENGINE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.IntervalMs <= 0 {
		return cfg, errors.New("engine: interval must be positive")
	}
	if cfg.Separator == "" {
		cfg.Separator = "."
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.DispatchTimeoutMs <= 0 {
		cfg.DispatchTimeoutMs = 10000
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
