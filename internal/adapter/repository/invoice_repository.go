package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/model"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/repository"
)

type invoiceRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewInvoiceRepository(db *gorm.DB, logger *zap.Logger) repository.InvoiceRepository {
	return &invoiceRepository{
		db:     db,
		logger: logger,
	}
}

// upsertColumns are replaced on external_id conflict; id and created_at are kept
var upsertColumns = []string{
	"number",
	"company_id",
	"amount",
	"balance",
	"status",
	"issued_on",
	"due_on",
	"synced_at",
	"raw_snapshot",
	"updated_at",
}

func (r *invoiceRepository) UpsertByExternalID(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ExternalID == nil || *invoice.ExternalID == "" {
		return errors.New("invoice upsert requires an external id")
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}

	m := toInvoiceModel(invoice)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(m).Error
	if err != nil {
		r.logger.Error("Failed to upsert invoice",
			zap.String("external_id", *invoice.ExternalID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *invoiceRepository) DeleteByExternalID(ctx context.Context, externalID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		Delete(&model.Invoice{})
	return result.RowsAffected, result.Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.getWhere(ctx, "id = ?", id)
}

func (r *invoiceRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.Invoice, error) {
	return r.getWhere(ctx, "external_id = ?", externalID)
}

func (r *invoiceRepository) getWhere(ctx context.Context, query string, arg interface{}) (*entity.Invoice, error) {
	var m model.Invoice
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toInvoiceEntity(&m), nil
}

func toInvoiceModel(e *entity.Invoice) *model.Invoice {
	updatedAt := e.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	return &model.Invoice{
		ID:          e.ID,
		ExternalID:  e.ExternalID,
		Number:      e.Number,
		CompanyID:   e.CompanyID,
		Amount:      e.Amount,
		Balance:     e.Balance,
		Status:      string(e.Status),
		IssuedOn:    e.IssuedOn,
		DueOn:       e.DueOn,
		SyncedAt:    e.SyncedAt,
		RawSnapshot: datatypes.JSON(e.RawSnapshot),
		UpdatedAt:   updatedAt,
	}
}

func toInvoiceEntity(m *model.Invoice) *entity.Invoice {
	return &entity.Invoice{
		ID:          m.ID,
		ExternalID:  m.ExternalID,
		Number:      m.Number,
		CompanyID:   m.CompanyID,
		Amount:      m.Amount,
		Balance:     m.Balance,
		Status:      entity.InvoiceStatus(m.Status),
		IssuedOn:    m.IssuedOn,
		DueOn:       m.DueOn,
		SyncedAt:    m.SyncedAt,
		RawSnapshot: []byte(m.RawSnapshot),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
