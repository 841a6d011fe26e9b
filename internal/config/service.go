package config

import (
	"encoding/hex"
	"time"
)

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	ClientURL   string `yaml:"client_url" validate:"omitempty,url"`
	// SettingsURL receives the outcome of the OAuth callback as ?success= or ?error=
	SettingsURL string `yaml:"settings_url" validate:"required,url"`
}

const (
	DefaultAuthURL  = "https://appcenter.intuit.com/connect/oauth2"
	DefaultTokenURL = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"
	DefaultScope    = "com.intuit.quickbooks.accounting"

	SandboxAPIBaseURL    = "https://sandbox-quickbooks.api.intuit.com"
	ProductionAPIBaseURL = "https://quickbooks.api.intuit.com"
)

type QuickBooksConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	RedirectURL  string `yaml:"redirect_url" validate:"required,url"`
	Environment  string `yaml:"environment" validate:"oneof=sandbox production"`
	AuthURL      string `yaml:"auth_url" validate:"required,url"`
	TokenURL     string `yaml:"token_url" validate:"required,url"`
	// APIBaseURL overrides the base URL derived from Environment
	APIBaseURL   string `yaml:"api_base_url" validate:"omitempty,url"`
	Scope        string `yaml:"scope" validate:"required"`
	MinorVersion int    `yaml:"minor_version"`

	WebhookVerifierToken string        `yaml:"webhook_verifier_token"`
	RequestsPerMinute    int           `yaml:"requests_per_minute" validate:"gte=0"`
	QueryMaxResults      int           `yaml:"query_max_results" validate:"gt=0,lte=1000"`
	RequestTimeout       time.Duration `yaml:"request_timeout"`

	// TokenEncryptionKey is a 64 character hex AES-256 key; empty stores tokens unsealed
	TokenEncryptionKey string `yaml:"token_encryption_key" validate:"omitempty,len=64,hexadecimal"`
}

func (c QuickBooksConfig) BaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	if c.Environment == "production" {
		return ProductionAPIBaseURL
	}
	return SandboxAPIBaseURL
}

// EncryptionKey decodes TokenEncryptionKey; nil when sealing is disabled.
func (c QuickBooksConfig) EncryptionKey() ([]byte, error) {
	if c.TokenEncryptionKey == "" {
		return nil, nil
	}
	return hex.DecodeString(c.TokenEncryptionKey)
}
