package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/model"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/repository"
)

// TokenSealer encrypts token columns at rest. A nil sealer stores them as-is.
type TokenSealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

type credentialRepository struct {
	db     *gorm.DB
	sealer TokenSealer
	logger *zap.Logger
}

func NewCredentialRepository(db *gorm.DB, sealer TokenSealer, logger *zap.Logger) repository.CredentialRepository {
	return &credentialRepository{
		db:     db,
		sealer: sealer,
		logger: logger,
	}
}

func (r *credentialRepository) GetByRealmID(ctx context.Context, realmID string) (*entity.Credential, error) {
	var m model.AccountingCredential
	err := r.db.WithContext(ctx).Where("realm_id = ?", realmID).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toEntity(&m)
}

func (r *credentialRepository) GetCurrent(ctx context.Context) (*entity.Credential, error) {
	var m model.AccountingCredential
	err := r.db.WithContext(ctx).Order("updated_at DESC").Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toEntity(&m)
}

// Upsert replaces every token column of the realm's row in place
func (r *credentialRepository) Upsert(ctx context.Context, credential *entity.Credential) error {
	m, err := r.toModel(credential)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "realm_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token",
			"refresh_token",
			"access_token_expires_at",
			"refresh_token_expires_at",
			"updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		r.logger.Error("Failed to upsert accounting credential",
			zap.String("realm_id", credential.RealmID),
			zap.Error(err),
		)
		return err
	}

	credential.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *credentialRepository) DeleteByRealmID(ctx context.Context, realmID string) error {
	return r.db.WithContext(ctx).
		Where("realm_id = ?", realmID).
		Delete(&model.AccountingCredential{}).Error
}

func (r *credentialRepository) toModel(e *entity.Credential) (*model.AccountingCredential, error) {
	access, err := r.seal(e.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to seal access token: %w", err)
	}
	refresh, err := r.seal(e.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to seal refresh token: %w", err)
	}

	updatedAt := e.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	return &model.AccountingCredential{
		RealmID:               e.RealmID,
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  e.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: e.RefreshTokenExpiresAt,
		UpdatedAt:             updatedAt,
	}, nil
}

func (r *credentialRepository) toEntity(m *model.AccountingCredential) (*entity.Credential, error) {
	access, err := r.open(m.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open access token: %w", err)
	}
	refresh, err := r.open(m.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open refresh token: %w", err)
	}

	return &entity.Credential{
		RealmID:               m.RealmID,
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  m.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: m.RefreshTokenExpiresAt,
		UpdatedAt:             m.UpdatedAt,
	}, nil
}

func (r *credentialRepository) seal(v string) (string, error) {
	if r.sealer == nil {
		return v, nil
	}
	return r.sealer.Seal(v)
}

func (r *credentialRepository) open(v string) (string, error) {
	if r.sealer == nil {
		return v, nil
	}
	return r.sealer.Open(v)
}
