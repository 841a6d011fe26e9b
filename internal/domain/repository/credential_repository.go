package repository

import (
	"context"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
)

// CredentialRepository persists at most one credential per realm.
// Get methods return (nil, nil) when nothing is stored.
type CredentialRepository interface {
	GetByRealmID(ctx context.Context, realmID string) (*entity.Credential, error)
	// GetCurrent returns the most recently updated credential
	GetCurrent(ctx context.Context) (*entity.Credential, error)
	Upsert(ctx context.Context, credential *entity.Credential) error
	DeleteByRealmID(ctx context.Context, realmID string) error
}
