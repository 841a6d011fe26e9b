package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-accounting/internal/domain/errors"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/repository"
)

// TokenService keeps the stored credential usable and forgets it once it cannot be repaired
type TokenService struct {
	credentials repository.CredentialRepository
	oauth       provider.OAuthProvider
	metrics     MetricsRecorder
	logger      *zap.Logger
	now         func() time.Time

	// one in-flight refresh per realm
	refreshes singleflight.Group
}

func NewTokenService(
	credentials repository.CredentialRepository,
	oauth provider.OAuthProvider,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		credentials: credentials,
		oauth:       oauth,
		metrics:     orNoop(metrics),
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock replaces the time source
func (s *TokenService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *TokenService) GetValidAccessToken(ctx context.Context, realmID string) (string, string, error) {
	cred, err := s.load(ctx, realmID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil {
		return "", "", domainErrors.ErrNotConnected
	}

	now := s.now()
	if cred.RefreshExpired(now) {
		s.forget(ctx, cred.RealmID, "refresh token expired")
		return "", "", domainErrors.ErrNotConnected
	}
	if !cred.NeedsRefresh(now) {
		return cred.AccessToken, cred.RealmID, nil
	}

	v, err, _ := s.refreshes.Do(cred.RealmID, func() (interface{}, error) {
		return s.refresh(ctx, cred.RealmID)
	})
	if err != nil {
		return "", "", err
	}

	refreshed := v.(*entity.Credential)
	return refreshed.AccessToken, refreshed.RealmID, nil
}

// refresh reloads the row first so a caller that lost the race reuses the winner's token
func (s *TokenService) refresh(ctx context.Context, realmID string) (*entity.Credential, error) {
	current, err := s.credentials.GetByRealmID(ctx, realmID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if current == nil {
		return nil, domainErrors.ErrNotConnected
	}

	now := s.now()
	if current.RefreshExpired(now) {
		s.forget(ctx, realmID, "refresh token expired")
		return nil, domainErrors.ErrNotConnected
	}
	if !current.NeedsRefresh(now) {
		return current, nil
	}

	set, err := s.oauth.Refresh(ctx, current.RefreshToken)
	if err != nil {
		s.metrics.TokenRefresh("failure")
		s.logger.Error("Access token refresh failed",
			zap.String("realm_id", realmID),
			zap.Error(err),
		)
		s.forget(ctx, realmID, "refresh failed")
		return nil, fmt.Errorf("%w: token refresh failed", domainErrors.ErrNotConnected)
	}

	updated := &entity.Credential{
		RealmID:               realmID,
		AccessToken:           set.AccessToken,
		RefreshToken:          set.RefreshToken,
		AccessTokenExpiresAt:  set.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: set.RefreshTokenExpiresAt,
		UpdatedAt:             now,
	}
	if updated.RefreshToken == "" {
		updated.RefreshToken = current.RefreshToken
	}
	if updated.RefreshTokenExpiresAt.IsZero() {
		updated.RefreshTokenExpiresAt = current.RefreshTokenExpiresAt
	}

	if err := s.credentials.Upsert(ctx, updated); err != nil {
		s.metrics.TokenRefresh("failure")
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrPersistenceFailed, err)
	}

	s.metrics.TokenRefresh("success")
	s.logger.Info("Access token refreshed",
		zap.String("realm_id", realmID),
		zap.Time("access_token_expires_at", updated.AccessTokenExpiresAt),
	)
	return updated, nil
}

// Store persists the result of a successful code exchange, replacing any previous record for the realm
func (s *TokenService) Store(ctx context.Context, realmID string, set *provider.TokenSet) error {
	cred := &entity.Credential{
		RealmID:               realmID,
		AccessToken:           set.AccessToken,
		RefreshToken:          set.RefreshToken,
		AccessTokenExpiresAt:  set.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: set.RefreshTokenExpiresAt,
		UpdatedAt:             s.now(),
	}
	if err := s.credentials.Upsert(ctx, cred); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrPersistenceFailed, err)
	}
	return nil
}

// Disconnect removes the credential; disconnecting twice is not an error
func (s *TokenService) Disconnect(ctx context.Context, realmID string) error {
	if realmID == "" {
		cred, err := s.credentials.GetCurrent(ctx)
		if err != nil {
			return fmt.Errorf("failed to load credential: %w", err)
		}
		if cred == nil {
			return nil
		}
		realmID = cred.RealmID
	}

	if err := s.credentials.DeleteByRealmID(ctx, realmID); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrPersistenceFailed, err)
	}
	s.logger.Info("Accounting connection removed", zap.String("realm_id", realmID))
	return nil
}

// Credential returns the stored record without checking or refreshing it
func (s *TokenService) Credential(ctx context.Context, realmID string) (*entity.Credential, error) {
	return s.load(ctx, realmID)
}

func (s *TokenService) load(ctx context.Context, realmID string) (*entity.Credential, error) {
	if realmID == "" {
		return s.credentials.GetCurrent(ctx)
	}
	return s.credentials.GetByRealmID(ctx, realmID)
}

func (s *TokenService) forget(ctx context.Context, realmID, reason string) {
	if err := s.credentials.DeleteByRealmID(ctx, realmID); err != nil {
		s.logger.Error("Failed to delete unusable credential",
			zap.String("realm_id", realmID),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return
	}
	s.logger.Warn("Credential deleted, re-authorization required",
		zap.String("realm_id", realmID),
		zap.String("reason", reason),
	)
}
