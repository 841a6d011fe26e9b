package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-accounting/internal/domain/errors"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
)

const stateLength = 32

// CallbackParams are the query parameters of the provider redirect
type CallbackParams struct {
	Code             string
	RealmID          string
	State            string
	Error            string
	ErrorDescription string
}

// AuthorizationService runs the authorization code handshake.
// The state value lives with the caller (a signed cookie), never in the database.
type AuthorizationService struct {
	oauth  provider.OAuthProvider
	tokens *TokenService
	logger *zap.Logger
}

func NewAuthorizationService(oauth provider.OAuthProvider, tokens *TokenService, logger *zap.Logger) *AuthorizationService {
	return &AuthorizationService{
		oauth:  oauth,
		tokens: tokens,
		logger: logger,
	}
}

// Begin returns a fresh state value and the authorize URL that embeds it
func (s *AuthorizationService) Begin() (state string, authURL string, err error) {
	state, err = gonanoid.New(stateLength)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}

	s.logger.Info("Authorization flow started", zap.String("flow_state", string(entity.AuthFlowRedirected)))
	return state, s.oauth.AuthCodeURL(state), nil
}

// Complete validates the callback against expectedState and stores the exchanged tokens.
// No credential is written unless every check passes.
func (s *AuthorizationService) Complete(ctx context.Context, expectedState string, params CallbackParams) (string, error) {
	s.logger.Info("Authorization callback received",
		zap.String("flow_state", string(entity.AuthFlowCallbackPending)),
		zap.String("realm_id", params.RealmID),
	)

	if err := s.check(expectedState, params); err != nil {
		s.fail(params.RealmID, err)
		return "", err
	}

	set, err := s.oauth.Exchange(ctx, params.Code)
	if err != nil {
		err = fmt.Errorf("%w: %v", domainErrors.ErrTokenExchangeFailed, err)
		s.fail(params.RealmID, err)
		return "", err
	}

	if err := s.tokens.Store(ctx, params.RealmID, set); err != nil {
		s.fail(params.RealmID, err)
		return "", err
	}

	s.logger.Info("Accounting connection established",
		zap.String("flow_state", string(entity.AuthFlowConnected)),
		zap.String("realm_id", params.RealmID),
	)
	return params.RealmID, nil
}

func (s *AuthorizationService) check(expectedState string, params CallbackParams) error {
	if expectedState == "" || params.State == "" ||
		subtle.ConstantTimeCompare([]byte(expectedState), []byte(params.State)) != 1 {
		return domainErrors.ErrInvalidState
	}
	if params.Error != "" {
		return fmt.Errorf("%w: %s", domainErrors.ErrProviderDenied, params.Error)
	}
	if params.Code == "" || params.RealmID == "" {
		return domainErrors.ErrMissingCallbackParams
	}
	return nil
}

func (s *AuthorizationService) fail(realmID string, err error) {
	s.logger.Warn("Authorization flow failed",
		zap.String("flow_state", string(entity.AuthFlowFailed)),
		zap.String("realm_id", realmID),
		zap.String("reason", domainErrors.CallbackReason(err)),
		zap.Error(err),
	)
}
