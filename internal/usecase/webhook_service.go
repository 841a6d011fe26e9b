package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-accounting/internal/domain/errors"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/repository"
)

// WebhookService applies provider change notifications
type WebhookService struct {
	verifierToken []byte
	tokens        TokenProvider
	clients       provider.ClientFactory
	rec           *reconciler
	metrics       MetricsRecorder
	logger        *zap.Logger
}

func NewWebhookService(
	verifierToken string,
	tokens TokenProvider,
	clients provider.ClientFactory,
	invoices repository.InvoiceRepository,
	companies repository.CompanyRepository,
	publisher EventPublisher,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		verifierToken: []byte(verifierToken),
		tokens:        tokens,
		clients:       clients,
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

func (s *WebhookService) SetClock(now func() time.Time) {
	s.rec.now = now
}

// VerifySignature checks signature == base64(HMAC-SHA256(body, verifier token)).
// Without a verifier token nothing can be verified and every delivery is rejected.
func (s *WebhookService) VerifySignature(body []byte, signature string) error {
	if len(s.verifierToken) == 0 {
		return domainErrors.ErrWebhookNotConfigured
	}
	if signature == "" {
		return domainErrors.ErrSignatureInvalid
	}

	given, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return domainErrors.ErrSignatureInvalid
	}

	mac := hmac.New(sha256.New, s.verifierToken)
	mac.Write(body)
	if !hmac.Equal(given, mac.Sum(nil)) {
		return domainErrors.ErrSignatureInvalid
	}
	return nil
}

// Process applies every invoice entity in the notification. Entity level failures are
// logged and skipped; only an undecodable body is reported.
func (s *WebhookService) Process(ctx context.Context, body []byte) error {
	var notification entity.WebhookNotification
	if err := json.Unmarshal(body, &notification); err != nil {
		return fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	for _, group := range notification.EventNotifications {
		s.processGroup(ctx, group)
	}
	return nil
}

func (s *WebhookService) processGroup(ctx context.Context, group entity.WebhookEventGroup) {
	logger := s.logger.With(zap.String("realm_id", group.RealmID))

	accessToken, realmID, err := s.tokens.GetValidAccessToken(ctx, group.RealmID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotConnected) {
			logger.Warn("Webhook for realm without a usable credential ignored")
		} else {
			logger.Error("Failed to obtain access token for webhook", zap.Error(err))
		}
		return
	}

	client := s.clients.NewClient(realmID, accessToken)
	var index entity.CustomerIndex

	for _, changed := range group.DataChangeEvent.Entities {
		if !changed.IsInvoice() {
			continue
		}

		entityLogger := logger.With(
			zap.String("external_id", changed.ID),
			zap.String("operation", changed.Operation),
		)

		if changed.IsRemoval() {
			removed, err := s.rec.remove(ctx, changed.ID, "webhook")
			if err != nil {
				s.metrics.WebhookEntity(changed.Operation, "failed")
				entityLogger.Error("Failed to remove invoice", zap.Error(err))
				continue
			}
			s.metrics.WebhookEntity(changed.Operation, "removed")
			entityLogger.Info("Invoice removed", zap.Int64("rows", removed))
			continue
		}

		inv, err := client.GetInvoice(ctx, changed.ID)
		if err != nil {
			// the invoice may be gone again by the time it is fetched
			s.metrics.WebhookEntity(changed.Operation, "fetch_failed")
			entityLogger.Warn("Failed to fetch invoice", zap.Error(err))
			continue
		}

		if index == nil {
			index, err = s.rec.customerIndex(ctx)
			if err != nil {
				s.metrics.WebhookEntity(changed.Operation, "failed")
				entityLogger.Error("Failed to load customer mappings", zap.Error(err))
				return
			}
		}

		mapped, err := s.rec.upsert(ctx, inv, index, "webhook")
		switch {
		case !mapped:
			s.metrics.WebhookEntity(changed.Operation, "skipped")
			entityLogger.Debug("Invoice customer is not mapped", zap.String("customer_id", inv.CustomerRef.Value))
		case err != nil:
			s.metrics.WebhookEntity(changed.Operation, "failed")
			entityLogger.Error("Failed to upsert invoice", zap.Error(err))
		default:
			s.metrics.WebhookEntity(changed.Operation, "upserted")
		}
	}
}
