package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/repository"
)

// InvoiceEvent is the payload of invoice.upserted and invoice.removed
type InvoiceEvent struct {
	ExternalID string               `json:"external_id"`
	CompanyID  *uuid.UUID           `json:"company_id,omitempty"`
	Status     entity.InvoiceStatus `json:"status,omitempty"`
	Source     string               `json:"source"`
}

// reconciler is the upsert core shared by batch sync and webhooks
type reconciler struct {
	invoices  repository.InvoiceRepository
	companies repository.CompanyRepository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func (r *reconciler) customerIndex(ctx context.Context) (entity.CustomerIndex, error) {
	companies, err := r.companies.ListMapped(ctx)
	if err != nil {
		return nil, err
	}
	return entity.NewCustomerIndex(companies), nil
}

// upsert returns mapped=false, without writing, when the customer is not linked locally
func (r *reconciler) upsert(ctx context.Context, inv *provider.Invoice, index entity.CustomerIndex, source string) (bool, error) {
	companyID, ok := index.Lookup(inv.CustomerRef.Value)
	if !ok {
		return false, nil
	}

	local := toLocalInvoice(inv, companyID, r.now())
	if err := r.invoices.UpsertByExternalID(ctx, local); err != nil {
		return true, err
	}

	r.publish(ctx, EventInvoiceUpserted, InvoiceEvent{
		ExternalID: inv.ID,
		CompanyID:  &companyID,
		Status:     local.Status,
		Source:     source,
	})
	return true, nil
}

func (r *reconciler) remove(ctx context.Context, externalID, source string) (int64, error) {
	removed, err := r.invoices.DeleteByExternalID(ctx, externalID)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		r.publish(ctx, EventInvoiceRemoved, InvoiceEvent{ExternalID: externalID, Source: source})
	}
	return removed, nil
}

func (r *reconciler) publish(ctx context.Context, channel string, message interface{}) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, channel, message); err != nil {
		r.logger.Warn("Failed to publish event", zap.String("channel", channel), zap.Error(err))
	}
}

func toLocalInvoice(inv *provider.Invoice, companyID uuid.UUID, now time.Time) *entity.Invoice {
	externalID := inv.ID

	var dueOn time.Time
	if inv.DueDate != nil {
		dueOn = *inv.DueDate
	}

	return &entity.Invoice{
		ExternalID:  &externalID,
		Number:      inv.DocNumber,
		CompanyID:   companyID,
		Amount:      inv.TotalAmt,
		Balance:     inv.Balance,
		Status:      entity.DeriveStatus(inv.Balance, dueOn, now),
		IssuedOn:    inv.TxnDate,
		DueOn:       inv.DueDate,
		SyncedAt:    now,
		RawSnapshot: inv.Raw,
	}
}
