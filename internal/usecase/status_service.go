package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-accounting/internal/domain/errors"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
)

// StatusService reports the connection using a live probe, not stored state alone
type StatusService struct {
	tokens  *TokenService
	clients provider.ClientFactory
	logger  *zap.Logger
}

func NewStatusService(tokens *TokenService, clients provider.ClientFactory, logger *zap.Logger) *StatusService {
	return &StatusService{
		tokens:  tokens,
		clients: clients,
		logger:  logger,
	}
}

func (s *StatusService) Status(ctx context.Context) (*entity.ConnectionStatus, error) {
	accessToken, realmID, err := s.tokens.GetValidAccessToken(ctx, "")
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotConnected) {
			return &entity.ConnectionStatus{Connected: false}, nil
		}
		return nil, err
	}

	cred, err := s.tokens.Credential(ctx, realmID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return &entity.ConnectionStatus{Connected: false}, nil
	}

	return &entity.ConnectionStatus{
		Connected:             s.clients.NewClient(realmID, accessToken).TestConnection(ctx),
		RealmID:               realmID,
		AccessTokenExpiresAt:  &cred.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: &cred.RefreshTokenExpiresAt,
		LastSyncAt:            &cred.UpdatedAt,
	}, nil
}

func (s *StatusService) Disconnect(ctx context.Context) error {
	return s.tokens.Disconnect(ctx, "")
}
