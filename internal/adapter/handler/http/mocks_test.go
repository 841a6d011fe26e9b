package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
	"github.com/wekeepgrowing/semo-accounting/internal/usecase"
)

type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) Begin() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthorizer) Complete(ctx context.Context, expectedState string, params usecase.CallbackParams) (string, error) {
	args := m.Called(ctx, expectedState, params)
	return args.String(0), args.Error(1)
}

type MockConnectionManager struct {
	mock.Mock
}

func (m *MockConnectionManager) Status(ctx context.Context) (*entity.ConnectionStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ConnectionStatus), args.Error(1)
}

func (m *MockConnectionManager) Disconnect(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockSynchronizer struct {
	mock.Mock
}

func (m *MockSynchronizer) SyncAll(ctx context.Context) (*entity.SyncResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SyncResult), args.Error(1)
}

type MockCustomerSearcher struct {
	mock.Mock
}

func (m *MockCustomerSearcher) Search(ctx context.Context, term string) ([]*provider.Customer, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.Customer), args.Error(1)
}

type MockWebhookProcessor struct {
	mock.Mock
}

func (m *MockWebhookProcessor) VerifySignature(body []byte, signature string) error {
	return m.Called(body, signature).Error(0)
}

func (m *MockWebhookProcessor) Process(ctx context.Context, body []byte) error {
	return m.Called(ctx, body).Error(0)
}

type MockInvoiceDocuments struct {
	mock.Mock
}

func (m *MockInvoiceDocuments) GetPDF(ctx context.Context, invoiceID uuid.UUID) (*usecase.InvoicePDF, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.InvoicePDF), args.Error(1)
}
