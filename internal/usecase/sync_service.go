package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/repository"
)

// SyncService pulls every invoice from the provider and mirrors the mapped ones locally
type SyncService struct {
	tokens  TokenProvider
	clients provider.ClientFactory
	rec     *reconciler
	metrics MetricsRecorder
	logger  *zap.Logger
}

func NewSyncService(
	tokens TokenProvider,
	clients provider.ClientFactory,
	invoices repository.InvoiceRepository,
	companies repository.CompanyRepository,
	publisher EventPublisher,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		tokens:  tokens,
		clients: clients,
		rec: &reconciler{
			invoices:  invoices,
			companies: companies,
			publisher: publisher,
			logger:    logger,
			now:       time.Now,
		},
		metrics: orNoop(metrics),
		logger:  logger,
	}
}

// SetClock replaces the time source used for status derivation
func (s *SyncService) SetClock(now func() time.Time) {
	s.rec.now = now
}

// SyncAll fails as a whole only when no token or invoice list can be obtained.
// Per-invoice failures are collected in the result.
func (s *SyncService) SyncAll(ctx context.Context) (*entity.SyncResult, error) {
	accessToken, realmID, err := s.tokens.GetValidAccessToken(ctx, "")
	if err != nil {
		return nil, err
	}

	client := s.clients.NewClient(realmID, accessToken)
	invoices, err := client.QueryInvoices(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}

	index, err := s.rec.customerIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer mappings: %w", err)
	}

	result := &entity.SyncResult{
		Total:  len(invoices),
		Errors: []entity.SyncError{},
	}

	for _, inv := range invoices {
		if inv.DecodeErr != nil {
			result.Errors = append(result.Errors, entity.SyncError{ExternalID: inv.ID, Message: inv.DecodeErr.Error()})
			s.metrics.InvoiceSynced("failed")
			continue
		}

		mapped, err := s.rec.upsert(ctx, inv, index, "sync")
		switch {
		case !mapped:
			result.Skipped++
			s.metrics.InvoiceSynced("skipped")
		case err != nil:
			result.Errors = append(result.Errors, entity.SyncError{ExternalID: inv.ID, Message: err.Error()})
			s.metrics.InvoiceSynced("failed")
		default:
			result.Synced++
			s.metrics.InvoiceSynced("synced")
		}
	}

	s.logger.Info("Invoice sync completed",
		zap.String("realm_id", realmID),
		zap.Int("total", result.Total),
		zap.Int("synced", result.Synced),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	s.rec.publish(ctx, EventSyncCompleted, result)

	return result, nil
}
