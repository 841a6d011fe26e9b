package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-accounting/internal/domain/errors"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
	"github.com/wekeepgrowing/semo-accounting/internal/usecase"
)

var (
	companyC1 = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	yesterday = testNow.AddDate(0, 0, -1)
	tomorrow  = testNow.AddDate(0, 0, 1)
)

func providerInvoice(id, customer string, balance int64, due time.Time) *provider.Invoice {
	raw, _ := json.Marshal(map[string]interface{}{"Id": id, "Balance": balance})
	return &provider.Invoice{
		ID:          id,
		DocNumber:   "INV-" + id,
		TxnDate:     testNow.AddDate(0, -1, 0),
		DueDate:     &due,
		TotalAmt:    decimal.NewFromInt(500),
		Balance:     decimal.NewFromInt(balance),
		CustomerRef: provider.Reference{Value: customer},
		Raw:         raw,
	}
}

type syncFixture struct {
	tokens    *MockTokenProvider
	factory   *MockClientFactory
	client    *MockAccountingClient
	companies *MockCompanyRepository
	invoices  *memoryInvoiceRepository
	svc       *usecase.SyncService
}

func newSyncFixture(publisher usecase.EventPublisher) *syncFixture {
	f := &syncFixture{
		tokens:    new(MockTokenProvider),
		client:    new(MockAccountingClient),
		companies: new(MockCompanyRepository),
		invoices:  newMemoryInvoiceRepository(),
	}
	f.factory = &MockClientFactory{Client: f.client}
	f.svc = usecase.NewSyncService(f.tokens, f.factory, f.invoices, f.companies, publisher, nil, zap.NewNop())
	f.svc.SetClock(func() time.Time { return testNow })

	f.tokens.On("GetValidAccessToken", mock.Anything, "").Return("access", "realm-1", nil)
	f.factory.On("NewClient", "realm-1", "access").Return()
	f.companies.On("ListMapped", mock.Anything).Return([]*entity.Company{
		{ID: companyC1, Name: "C1", ExternalCustomerID: strPtr("CUST-1")},
	}, nil)
	return f
}

func TestSyncService_SyncAll(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(nil)

	f.client.On("QueryInvoices", mock.Anything, (*time.Time)(nil)).Return([]*provider.Invoice{
		providerInvoice("42", "CUST-1", 0, yesterday),
		providerInvoice("43", "CUST-1", 500, yesterday),
		providerInvoice("44", "CUST-1", 500, tomorrow),
		providerInvoice("45", "CUST-UNKNOWN", 500, tomorrow),
	}, nil)

	result, err := f.svc.SyncAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)

	paid, ok := f.invoices.get("42")
	require.True(t, ok)
	assert.Equal(t, "42", *paid.ExternalID)
	assert.Equal(t, companyC1, paid.CompanyID)
	assert.Equal(t, entity.InvoiceStatusPaid, paid.Status)

	overdue, _ := f.invoices.get("43")
	assert.Equal(t, entity.InvoiceStatusOverdue, overdue.Status)

	unpaid, _ := f.invoices.get("44")
	assert.Equal(t, entity.InvoiceStatusUnpaid, unpaid.Status)

	_, written := f.invoices.get("45")
	assert.False(t, written, "unmapped customer must not be written")
}

func TestSyncService_SyncAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(nil)

	f.client.On("QueryInvoices", mock.Anything, (*time.Time)(nil)).Return([]*provider.Invoice{
		providerInvoice("42", "CUST-1", 0, yesterday),
	}, nil)

	_, err := f.svc.SyncAll(ctx)
	require.NoError(t, err)
	first, _ := f.invoices.get("42")

	_, err = f.svc.SyncAll(ctx)
	require.NoError(t, err)
	second, _ := f.invoices.get("42")

	assert.Len(t, f.invoices.rows, 1)
	assert.Equal(t, first, second)
}

func TestSyncService_PerItemFailureContinues(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(nil)
	f.invoices.failFor["43"] = errors.New("deadlock detected")

	f.client.On("QueryInvoices", mock.Anything, (*time.Time)(nil)).Return([]*provider.Invoice{
		providerInvoice("42", "CUST-1", 0, yesterday),
		providerInvoice("43", "CUST-1", 500, yesterday),
		providerInvoice("44", "CUST-1", 500, tomorrow),
	}, nil)

	result, err := f.svc.SyncAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Synced)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "43", result.Errors[0].ExternalID)
	assert.Contains(t, result.Errors[0].Message, "deadlock")
	assert.False(t, result.AllFailed())

	_, ok := f.invoices.get("44")
	assert.True(t, ok, "processing continues after a failed invoice")
}

func TestSyncService_UndecodableInvoiceContinues(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(nil)

	f.client.On("QueryInvoices", mock.Anything, (*time.Time)(nil)).Return([]*provider.Invoice{
		providerInvoice("42", "CUST-1", 0, yesterday),
		{ID: "99", Raw: json.RawMessage(`{"Id":"99","DueDate":"10/02/2024"}`), DecodeErr: errors.New("failed to decode invoice: bad due date")},
	}, nil)

	result, err := f.svc.SyncAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Synced)
	assert.Zero(t, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "99", result.Errors[0].ExternalID)
	assert.Contains(t, result.Errors[0].Message, "bad due date")
	assert.False(t, result.AllFailed())

	_, ok := f.invoices.get("42")
	assert.True(t, ok)
	_, written := f.invoices.get("99")
	assert.False(t, written)
}

func TestSyncService_NotConnected(t *testing.T) {
	tokens := new(MockTokenProvider)
	factory := &MockClientFactory{Client: new(MockAccountingClient)}
	invoices := newMemoryInvoiceRepository()
	svc := usecase.NewSyncService(tokens, factory, invoices, new(MockCompanyRepository), nil, nil, zap.NewNop())

	tokens.On("GetValidAccessToken", mock.Anything, "").Return("", "", domainErrors.ErrNotConnected)

	result, err := svc.SyncAll(context.Background())
	assert.ErrorIs(t, err, domainErrors.ErrNotConnected)
	assert.Nil(t, result)
	assert.Zero(t, invoices.writes)
	factory.AssertNotCalled(t, "NewClient", mock.Anything, mock.Anything)
}

func TestSyncService_QueryFailureAbortsBatch(t *testing.T) {
	f := newSyncFixture(nil)
	f.client.On("QueryInvoices", mock.Anything, (*time.Time)(nil)).
		Return(nil, &provider.RequestFailedError{StatusCode: 503, Body: "unavailable"})

	_, err := f.svc.SyncAll(context.Background())

	var rf *provider.RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, 503, rf.StatusCode)
}

func TestSyncService_PublishesEvents(t *testing.T) {
	publisher := new(MockPublisher)
	f := newSyncFixture(publisher)

	f.client.On("QueryInvoices", mock.Anything, (*time.Time)(nil)).Return([]*provider.Invoice{
		providerInvoice("42", "CUST-1", 0, yesterday),
	}, nil)
	publisher.On("Publish", mock.Anything, usecase.EventInvoiceUpserted, mock.MatchedBy(func(e usecase.InvoiceEvent) bool {
		return e.ExternalID == "42" && e.Status == entity.InvoiceStatusPaid && e.Source == "sync"
	})).Return(nil).Once()
	publisher.On("Publish", mock.Anything, usecase.EventSyncCompleted, mock.Anything).
		Return(errors.New("redis down")).Once()

	result, err := f.svc.SyncAll(context.Background())
	require.NoError(t, err, "publish failures are not fatal")
	assert.Equal(t, 1, result.Synced)
	publisher.AssertExpectations(t)
}
