package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "accounting"

// Metrics holds the sync counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	invoicesSynced  *prometheus.CounterVec
	webhookEntities *prometheus.CounterVec
	tokenRefresh    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invoicesSynced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invoices_synced_total",
				Help:      "Invoices processed by batch sync, by outcome.",
			},
			[]string{"outcome"},
		),
		webhookEntities: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_entities_total",
				Help:      "Webhook entities processed, by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		tokenRefresh: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_refresh_total",
				Help:      "Access token refresh attempts, by result.",
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.invoicesSynced, m.webhookEntities, m.tokenRefresh)
	}
	return m
}

// InvoiceSynced outcome is one of synced, skipped, failed
func (m *Metrics) InvoiceSynced(outcome string) {
	if m == nil {
		return
	}
	m.invoicesSynced.WithLabelValues(outcome).Inc()
}

func (m *Metrics) WebhookEntity(operation, outcome string) {
	if m == nil {
		return
	}
	m.webhookEntities.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) TokenRefresh(result string) {
	if m == nil {
		return
	}
	m.tokenRefresh.WithLabelValues(result).Inc()
}
