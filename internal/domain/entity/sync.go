package entity

import (
	"time"
)

type SyncError struct {
	ExternalID string `json:"external_id"`
	Message    string `json:"message"`
}

// SyncResult is the tally of one batch sync
type SyncResult struct {
	Total   int         `json:"total"`
	Synced  int         `json:"synced"`
	Skipped int         `json:"skipped"`
	Errors  []SyncError `json:"errors"`
}

// AllFailed is true when at least one invoice was attempted and none was stored
func (r *SyncResult) AllFailed() bool {
	attempted := r.Total - r.Skipped
	return attempted > 0 && len(r.Errors) == attempted
}

// ConnectionStatus is what the status endpoint reports
type ConnectionStatus struct {
	Connected             bool       `json:"connected"`
	RealmID               string     `json:"realm_id,omitempty"`
	AccessTokenExpiresAt  *time.Time `json:"access_token_expires_at,omitempty"`
	RefreshTokenExpiresAt *time.Time `json:"refresh_token_expires_at,omitempty"`
	LastSyncAt            *time.Time `json:"last_sync_at,omitempty"`
}

// AuthFlowState tracks an authorization attempt for logging
type AuthFlowState string

const (
	AuthFlowInit            AuthFlowState = "INIT"
	AuthFlowRedirected      AuthFlowState = "REDIRECTED"
	AuthFlowCallbackPending AuthFlowState = "CALLBACK_PENDING"
	AuthFlowConnected       AuthFlowState = "CONNECTED"
	AuthFlowFailed          AuthFlowState = "FAILED"
)
