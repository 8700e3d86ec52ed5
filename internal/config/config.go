// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fd1az/melwalletd-client/internal/apperror"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Daemon    DaemonConfig    `mapstructure:"daemon"`
	Faucet    FaucetConfig    `mapstructure:"faucet"`
	Confirm   ConfirmConfig   `mapstructure:"confirm"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// DaemonConfig describes how to reach melwalletd.
type DaemonConfig struct {
	URL      string        `mapstructure:"url"`
	Protocol string        `mapstructure:"protocol"` // rest | jsonrpc
	Timeout  time.Duration `mapstructure:"timeout"`
}

// FaucetConfig holds faucet defaults.
type FaucetConfig struct {
	// Amount in micromel. Empty or "0" lets the daemon pick.
	Amount string `mapstructure:"amount"`
}

// AmountInt parses Amount. It returns nil when the daemon should pick.
func (c FaucetConfig) AmountInt() (*big.Int, error) {
	s := strings.TrimSpace(c.Amount)
	if s == "" {
		return nil, nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid faucet.amount: %q", c.Amount)
	}
	if n.Sign() == 0 {
		return nil, nil
	}
	return n, nil
}

// ConfirmConfig holds settings for waiting on transaction confirmation.
type ConfirmConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxFailures  uint32        `mapstructure:"max_failures"`
}

// MonitorConfig holds settings for the long-running header monitor.
type MonitorConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	HealthPort int           `mapstructure:"health_port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Provider       string `mapstructure:"provider"` // none | console | zipkin | otlp | otlphttp
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("melwallet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("MELWALLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeConfigurationError, "config")
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "MELWALLET_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "MELWALLET_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "MELWALLET_LOG_LEVEL", "LOG_LEVEL")

	// Daemon
	v.BindEnv("daemon.url", "MELWALLET_DAEMON_URL", "MELWALLETD_URL")
	v.BindEnv("daemon.protocol", "MELWALLET_DAEMON_PROTOCOL")
	v.BindEnv("daemon.timeout", "MELWALLET_DAEMON_TIMEOUT")

	// Faucet
	v.BindEnv("faucet.amount", "MELWALLET_FAUCET_AMOUNT")

	// Confirm
	v.BindEnv("confirm.poll_interval", "MELWALLET_CONFIRM_POLL_INTERVAL")
	v.BindEnv("confirm.timeout", "MELWALLET_CONFIRM_TIMEOUT")
	v.BindEnv("confirm.max_failures", "MELWALLET_CONFIRM_MAX_FAILURES")

	// Monitor
	v.BindEnv("monitor.interval", "MELWALLET_MONITOR_INTERVAL")
	v.BindEnv("monitor.health_port", "MELWALLET_HEALTH_PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "MELWALLET_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.provider", "MELWALLET_OTEL_PROVIDER")
	v.BindEnv("telemetry.service_name", "MELWALLET_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "MELWALLET_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.otlp_headers", "MELWALLET_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
	v.BindEnv("telemetry.prometheus_port", "MELWALLET_PROMETHEUS_PORT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "melwallet")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("daemon.url", "http://127.0.0.1:11773")
	v.SetDefault("daemon.protocol", "rest")
	v.SetDefault("daemon.timeout", "30s")

	v.SetDefault("faucet.amount", "1001000000")

	v.SetDefault("confirm.poll_interval", "5s")
	v.SetDefault("confirm.timeout", "5m")
	v.SetDefault("confirm.max_failures", 5)

	v.SetDefault("monitor.interval", "10s")
	v.SetDefault("monitor.health_port", 8081)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.provider", "console")
	v.SetDefault("telemetry.service_name", "melwallet")
	v.SetDefault("telemetry.prometheus_port", 2223)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Daemon.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid daemon.url: %q", c.Daemon.URL)
	}
	switch strings.ToLower(c.Daemon.Protocol) {
	case "", "rest", "jsonrpc":
	default:
		return fmt.Errorf("invalid daemon.protocol: %q (want rest or jsonrpc)", c.Daemon.Protocol)
	}
	if c.Daemon.Timeout < 0 {
		return fmt.Errorf("daemon.timeout cannot be negative")
	}
	if _, err := c.Faucet.AmountInt(); err != nil {
		return err
	}
	if c.Confirm.PollInterval <= 0 {
		return fmt.Errorf("confirm.poll_interval must be positive")
	}
	if c.Confirm.MaxFailures == 0 {
		return fmt.Errorf("confirm.max_failures must be at least 1")
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive")
	}
	switch c.Telemetry.Provider {
	case "", "none", "console", "zipkin", "otlp", "otlphttp":
	default:
		return fmt.Errorf("invalid telemetry.provider: %q", c.Telemetry.Provider)
	}
	return nil
}
