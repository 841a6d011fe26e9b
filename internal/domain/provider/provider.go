package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OAuthProvider drives the authorization code grant against the accounting provider
type OAuthProvider interface {
	// AuthCodeURL returns the provider authorize URL with state embedded
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for a token set
	Exchange(ctx context.Context, code string) (*TokenSet, error)

	// Refresh obtains a new token set; the refresh token may rotate
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
}

// ClientFactory builds an API client bound to one realm and access token
type ClientFactory interface {
	NewClient(realmID, accessToken string) AccountingClient
}

// AccountingClient is a read-only view of the provider's accounting API
type AccountingClient interface {
	// QueryInvoices returns an empty slice, not an error, when nothing matches.
	// An invoice that cannot be decoded is returned with DecodeErr set.
	QueryInvoices(ctx context.Context, modifiedSince *time.Time) ([]*Invoice, error)
	GetInvoice(ctx context.Context, externalID string) (*Invoice, error)
	GetInvoicePDF(ctx context.Context, externalID string) ([]byte, error)
	SearchCustomers(ctx context.Context, term string) ([]*Customer, error)

	// TestConnection reduces any failure to false
	TestConnection(ctx context.Context) bool
}

type TokenSet struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
}

type Reference struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

// Invoice is a decoded provider invoice plus the payload it was decoded from
type Invoice struct {
	ID          string
	DocNumber   string
	TxnDate     time.Time
	DueDate     *time.Time
	TotalAmt    decimal.Decimal
	Balance     decimal.Decimal
	CustomerRef Reference
	UpdatedAt   time.Time
	Raw         json.RawMessage

	// DecodeErr is set when only ID and Raw could be recovered
	DecodeErr error
}

type Customer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CompanyName string `json:"company_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Active      bool   `json:"active"`
}

// RequestFailedError is returned for any non-2xx provider response
type RequestFailedError struct {
	StatusCode int
	Body       string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("provider request failed with status %d: %s", e.StatusCode, e.Body)
}
