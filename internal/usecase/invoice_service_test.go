package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-accounting/internal/domain/errors"
	"github.com/wekeepgrowing/semo-accounting/internal/usecase"
)

func TestInvoiceService_GetPDF(t *testing.T) {
	ctx := context.Background()
	pdf := []byte("%PDF-1.4")

	t.Run("downloads by external id", func(t *testing.T) {
		invoices := newMemoryInvoiceRepository()
		id := uuid.New()
		invoices.rows["42"] = entity.Invoice{ID: id, ExternalID: strPtr("42"), Number: "1001/A"}

		tokens := new(MockTokenProvider)
		client := new(MockAccountingClient)
		factory := &MockClientFactory{Client: client}
		svc := usecase.NewInvoiceService(invoices, tokens, factory)

		tokens.On("GetValidAccessToken", mock.Anything, "").Return("access", "realm-1", nil)
		factory.On("NewClient", "realm-1", "access").Return()
		client.On("GetInvoicePDF", mock.Anything, "42").Return(pdf, nil)

		result, err := svc.GetPDF(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "invoice-1001_A.pdf", result.Filename)
		assert.Equal(t, pdf, result.Content)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		svc := usecase.NewInvoiceService(newMemoryInvoiceRepository(), new(MockTokenProvider), new(MockClientFactory))

		_, err := svc.GetPDF(ctx, uuid.New())
		assert.ErrorIs(t, err, domainErrors.ErrInvoiceNotFound)
	})

	t.Run("local invoice without external id", func(t *testing.T) {
		invoices := newMemoryInvoiceRepository()
		id := uuid.New()
		invoices.rows["local"] = entity.Invoice{ID: id, Number: "L-1"}
		tokens := new(MockTokenProvider)
		svc := usecase.NewInvoiceService(invoices, tokens, new(MockClientFactory))

		_, err := svc.GetPDF(ctx, id)
		assert.ErrorIs(t, err, domainErrors.ErrInvoiceNotSynced)
		tokens.AssertNotCalled(t, "GetValidAccessToken", mock.Anything, mock.Anything)
	})
}
