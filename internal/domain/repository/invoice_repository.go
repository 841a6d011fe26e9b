package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
)

type InvoiceRepository interface {
	// UpsertByExternalID inserts or replaces the row with the same external id
	UpsertByExternalID(ctx context.Context, invoice *entity.Invoice) error
	// DeleteByExternalID returns the number of removed rows; zero is not an error
	DeleteByExternalID(ctx context.Context, externalID string) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByExternalID(ctx context.Context, externalID string) (*entity.Invoice, error)
}

type CompanyRepository interface {
	// ListMapped returns companies carrying an external customer id
	ListMapped(ctx context.Context) ([]*entity.Company, error)
}
