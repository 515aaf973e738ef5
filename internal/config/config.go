package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/HaPhanBaoMinh/kcap/internal/domain"
)

// Config is read from KCAP_* environment variables and then overridden by
// command-line flags.
type Config struct {
	Kubeconfig string `env:"KCAP_KUBECONFIG"`
	Context    string `env:"KCAP_CONTEXT"`

	ResourceType string `env:"KCAP_TYPE" envDefault:"node"`
	SortBy       string `env:"KCAP_SORT_BY"`
	Selector     string `env:"KCAP_SELECTOR"`
	Utilization  bool   `env:"KCAP_UTILIZATION"`

	Output   string        `env:"KCAP_OUTPUT" envDefault:"table"`
	Watch    bool          `env:"KCAP_WATCH"`
	Interval time.Duration `env:"KCAP_INTERVAL" envDefault:"5s"`
	Mock     bool          `env:"KCAP_MOCK"`

	Timeout     time.Duration `env:"KCAP_TIMEOUT" envDefault:"30s"`
	Concurrency int           `env:"KCAP_CONCURRENCY" envDefault:"8"`

	LogLevel string `env:"KCAP_LOG_LEVEL" envDefault:"warn"`
	LogFile  string `env:"KCAP_LOG_FILE"`
}

var (
	outputFormats = []string{"table", "json", "yaml"}
	logLevels     = []string{"debug", "info", "warn", "error"}
)

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Type(); err != nil {
		return err
	}
	if _, err := c.SortKey(); err != nil {
		return err
	}
	if !contains(outputFormats, c.Output) {
		return &domain.ConfigError{Field: "output format", Value: c.Output, Allowed: outputFormats}
	}
	if !contains(logLevels, c.LogLevel) {
		return &domain.ConfigError{Field: "log level", Value: c.LogLevel, Allowed: logLevels}
	}
	if c.Concurrency < 1 {
		return &domain.ConfigError{Field: "concurrency", Value: fmt.Sprint(c.Concurrency)}
	}
	if c.Watch && c.Interval <= 0 {
		return &domain.ConfigError{Field: "interval", Value: c.Interval.String()}
	}
	if c.Timeout < 0 {
		return &domain.ConfigError{Field: "timeout", Value: c.Timeout.String()}
	}
	return nil
}

func (c *Config) Type() (domain.ResourceType, error) {
	return domain.ParseResourceType(c.ResourceType)
}

func (c *Config) SortKey() (domain.SortKey, error) {
	return domain.ParseSortKey(c.SortBy)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
