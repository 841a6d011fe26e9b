package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
)

// MockCredentialRepository is a mock implementation of CredentialRepository
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) GetByRealmID(ctx context.Context, realmID string) (*entity.Credential, error) {
	args := m.Called(ctx, realmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Credential), args.Error(1)
}

func (m *MockCredentialRepository) GetCurrent(ctx context.Context) (*entity.Credential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Upsert(ctx context.Context, credential *entity.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *MockCredentialRepository) DeleteByRealmID(ctx context.Context, realmID string) error {
	args := m.Called(ctx, realmID)
	return args.Error(0)
}

// MockOAuthProvider is a mock implementation of provider.OAuthProvider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) Exchange(ctx context.Context, code string) (*provider.TokenSet, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.TokenSet), args.Error(1)
}

func (m *MockOAuthProvider) Refresh(ctx context.Context, refreshToken string) (*provider.TokenSet, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.TokenSet), args.Error(1)
}

// MockTokenProvider is a mock implementation of usecase.TokenProvider
type MockTokenProvider struct {
	mock.Mock
}

func (m *MockTokenProvider) GetValidAccessToken(ctx context.Context, realmID string) (string, string, error) {
	args := m.Called(ctx, realmID)
	return args.String(0), args.String(1), args.Error(2)
}

// MockClientFactory returns the same client for every realm and records what it was built with
type MockClientFactory struct {
	mock.Mock
	Client *MockAccountingClient
}

func (m *MockClientFactory) NewClient(realmID, accessToken string) provider.AccountingClient {
	m.Called(realmID, accessToken)
	return m.Client
}

// MockAccountingClient is a mock implementation of provider.AccountingClient
type MockAccountingClient struct {
	mock.Mock
}

func (m *MockAccountingClient) QueryInvoices(ctx context.Context, modifiedSince *time.Time) ([]*provider.Invoice, error) {
	args := m.Called(ctx, modifiedSince)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.Invoice), args.Error(1)
}

func (m *MockAccountingClient) GetInvoice(ctx context.Context, externalID string) (*provider.Invoice, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Invoice), args.Error(1)
}

func (m *MockAccountingClient) GetInvoicePDF(ctx context.Context, externalID string) ([]byte, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockAccountingClient) SearchCustomers(ctx context.Context, term string) ([]*provider.Customer, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.Customer), args.Error(1)
}

func (m *MockAccountingClient) TestConnection(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// MockCompanyRepository is a mock implementation of CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) ListMapped(ctx context.Context) ([]*entity.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Company), args.Error(1)
}

// MockPublisher is a mock implementation of usecase.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

// memoryInvoiceRepository keys rows by external id the way the unique index does
type memoryInvoiceRepository struct {
	mu      sync.Mutex
	rows    map[string]entity.Invoice
	failFor map[string]error
	writes  int
}

func newMemoryInvoiceRepository() *memoryInvoiceRepository {
	return &memoryInvoiceRepository{
		rows:    map[string]entity.Invoice{},
		failFor: map[string]error{},
	}
}

func (r *memoryInvoiceRepository) UpsertByExternalID(ctx context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failFor[*invoice.ExternalID]; err != nil {
		return err
	}
	r.writes++

	row := *invoice
	if existing, ok := r.rows[*invoice.ExternalID]; ok {
		row.ID = existing.ID
	} else if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	invoice.ID = row.ID
	r.rows[*invoice.ExternalID] = row
	return nil
}

func (r *memoryInvoiceRepository) DeleteByExternalID(ctx context.Context, externalID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[externalID]; !ok {
		return 0, nil
	}
	delete(r.rows, externalID)
	return 1, nil
}

func (r *memoryInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.ID == id {
			found := row
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryInvoiceRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[externalID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *memoryInvoiceRepository) get(externalID string) (entity.Invoice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[externalID]
	return row, ok
}

func strPtr(s string) *string { return &s }
