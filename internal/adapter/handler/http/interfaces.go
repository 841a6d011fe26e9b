package http

import (
	"context"

	"github.com/google/uuid"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
	"github.com/wekeepgrowing/semo-accounting/internal/usecase"
)

// Authorizer is implemented by *usecase.AuthorizationService
type Authorizer interface {
	Begin() (state string, authURL string, err error)
	Complete(ctx context.Context, expectedState string, params usecase.CallbackParams) (string, error)
}

// ConnectionManager is implemented by *usecase.StatusService
type ConnectionManager interface {
	Status(ctx context.Context) (*entity.ConnectionStatus, error)
	Disconnect(ctx context.Context) error
}

type Synchronizer interface {
	SyncAll(ctx context.Context) (*entity.SyncResult, error)
}

type CustomerSearcher interface {
	Search(ctx context.Context, term string) ([]*provider.Customer, error)
}

type WebhookProcessor interface {
	VerifySignature(body []byte, signature string) error
	Process(ctx context.Context, body []byte) error
}

type InvoiceDocuments interface {
	GetPDF(ctx context.Context, invoiceID uuid.UUID) (*usecase.InvoicePDF, error)
}
