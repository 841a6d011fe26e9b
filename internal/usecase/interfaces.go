package usecase

import (
	"context"
)

// TokenProvider hands out a usable access token for a realm.
// An empty realmID selects the current (most recently updated) credential.
type TokenProvider interface {
	GetValidAccessToken(ctx context.Context, realmID string) (accessToken string, resolvedRealmID string, err error)
}

// EventPublisher publishes invoice change events; nil disables publication
type EventPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// MetricsRecorder is implemented by *metrics.Metrics
type MetricsRecorder interface {
	InvoiceSynced(outcome string)
	WebhookEntity(operation, outcome string)
	TokenRefresh(result string)
}

const (
	EventInvoiceUpserted = "invoice.upserted"
	EventInvoiceRemoved  = "invoice.removed"
	EventSyncCompleted   = "sync.completed"
)

type noopMetrics struct{}

func (noopMetrics) InvoiceSynced(string)         {}
func (noopMetrics) WebhookEntity(string, string) {}
func (noopMetrics) TokenRefresh(string)          {}

func orNoop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
