package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/wekeepgrowing/semo-accounting/pkg/config"
	"github.com/wekeepgrowing/semo-accounting/pkg/logger"
)

// ServiceName prefixes config files, environment variables and metrics
const ServiceName = "accounting"

type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Database   DatabaseConfig   `yaml:"database"`
	Server     ServerConfig     `yaml:"server"`
	Log        logger.Config    `yaml:"log"`
	JWT        JWTConfig        `yaml:"jwt"`
	Session    SessionConfig    `yaml:"session"`
	QuickBooks QuickBooksConfig `yaml:"quickbooks"`
	Redis      RedisConfig      `yaml:"redis"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret" validate:"required"`
	AdminRole string `yaml:"admin_role" validate:"required"`
}

type SessionConfig struct {
	Secret string `yaml:"secret" validate:"required,min=32"`
	// MaxAge in seconds for the OAuth state cookie
	MaxAge int  `yaml:"max_age" validate:"gt=0"`
	Secure bool `yaml:"secure"`
}

// RedisConfig is optional; an empty Addr disables event publication.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// LoadConfig reads configs/{APP_ENV}/accounting.yaml (or CONFIG_PATH), applies
// ACCOUNTING_* environment overrides and validates the result.
func LoadConfig() (*Config, error) {
	raw, err := config.Load(ServiceName, config.Options{Defaults: defaults()})
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := raw.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// defaults lists every key so that environment variables alone can configure the service.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":         ServiceName,
		"service.environment":  "dev",
		"service.version":      "dev",
		"service.client_url":   "http://localhost:3000",
		"service.settings_url": "http://localhost:3000/settings/integrations",

		"server.http.host":             "0.0.0.0",
		"server.http.port":             8080,
		"server.http.read_timeout":     "15s",
		"server.http.write_timeout":    "30s",
		"server.http.shutdown_timeout": "10s",
		"server.http.allowed_origins":  []string{"http://localhost:3000"},
		"server.grpc.host":             "0.0.0.0",
		"server.grpc.port":             9090,

		"database.host":               "localhost",
		"database.port":               5432,
		"database.name":               "semo",
		"database.user":               "postgres",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "30m",
		"database.conn_max_idle_time": "5m",
		"database.connect_attempts":   5,
		"database.connect_backoff":    "2s",
		"database.slow_threshold":     "200ms",
		"database.auto_migrate":       false,

		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.file_path":   "",
		"log.development": false,

		"jwt.secret":     "",
		"jwt.admin_role": "admin",

		"session.secret":  "",
		"session.max_age": 600,
		"session.secure":  true,

		"quickbooks.client_id":              "",
		"quickbooks.client_secret":          "",
		"quickbooks.redirect_url":           "",
		"quickbooks.environment":            "sandbox",
		"quickbooks.auth_url":               DefaultAuthURL,
		"quickbooks.token_url":              DefaultTokenURL,
		"quickbooks.api_base_url":           "",
		"quickbooks.scope":                  DefaultScope,
		"quickbooks.minor_version":          75,
		"quickbooks.webhook_verifier_token": "",
		"quickbooks.requests_per_minute":    450,
		"quickbooks.query_max_results":      1000,
		"quickbooks.request_timeout":        "30s",
		"quickbooks.token_encryption_key":   "",

		"redis.addr":     "",
		"redis.password": "",
		"redis.db":       0,
		"redis.channel":  ServiceName,
	}
}
