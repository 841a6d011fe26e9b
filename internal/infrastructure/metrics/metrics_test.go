package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.InvoiceSynced("synced")
	m.InvoiceSynced("synced")
	m.InvoiceSynced("skipped")
	m.WebhookEntity("Delete", "removed")
	m.TokenRefresh("success")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.invoicesSynced.WithLabelValues("synced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesSynced.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookEntities.WithLabelValues("Delete", "removed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tokenRefresh.WithLabelValues("success")))

	count, err := testutil.GatherAndCount(reg, "accounting_invoices_synced_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.InvoiceSynced("synced")
		m.WebhookEntity("Update", "upserted")
		m.TokenRefresh("failure")
	})
}
