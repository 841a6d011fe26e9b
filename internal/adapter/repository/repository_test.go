package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

type prefixSealer struct{}

func (prefixSealer) Seal(v string) (string, error) { return "sealed:" + v, nil }
func (prefixSealer) Open(v string) (string, error) { return strings.TrimPrefix(v, "sealed:"), nil }

func TestCredentialRepository_UpsertSealsTokens(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db, prefixSealer{}, zap.NewNop())

	mock.ExpectQuery(`INSERT INTO "accounting_credentials" .* ON CONFLICT \("realm_id"\) DO UPDATE SET`).
		WithArgs("realm-1", "sealed:access", "sealed:refresh",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	cred := &entity.Credential{
		RealmID:               "realm-1",
		AccessToken:           "access",
		RefreshToken:          "refresh",
		AccessTokenExpiresAt:  time.Now().Add(time.Hour),
		RefreshTokenExpiresAt: time.Now().Add(100 * 24 * time.Hour),
	}
	require.NoError(t, repo.Upsert(context.Background(), cred))
	assert.False(t, cred.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_GetByRealmID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db, prefixSealer{}, zap.NewNop())
	expires := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "realm_id", "access_token", "refresh_token", "access_token_expires_at", "refresh_token_expires_at", "updated_at"}).
		AddRow(1, "realm-1", "sealed:access", "sealed:refresh", expires, expires, expires)
	mock.ExpectQuery(`SELECT \* FROM "accounting_credentials" WHERE realm_id = \$1`).
		WillReturnRows(rows)

	cred, err := repo.GetByRealmID(context.Background(), "realm-1")
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "access", cred.AccessToken)
	assert.Equal(t, "refresh", cred.RefreshToken)
	assert.True(t, cred.AccessTokenExpiresAt.Equal(expires))
}

func TestCredentialRepository_NotFoundReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db, nil, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "accounting_credentials" ORDER BY updated_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	cred, err := repo.GetCurrent(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, cred)
}

func TestCredentialRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db, nil, zap.NewNop())

	mock.ExpectExec(`DELETE FROM "accounting_credentials" WHERE realm_id = \$1`).
		WithArgs("realm-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteByRealmID(context.Background(), "realm-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_UpsertByExternalID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())

	mock.ExpectExec(`INSERT INTO "invoices" .* ON CONFLICT \("external_id"\) DO UPDATE SET "number"="excluded"."number"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	externalID := "42"
	invoice := &entity.Invoice{
		ExternalID:  &externalID,
		Number:      "1001",
		CompanyID:   uuid.New(),
		Amount:      decimal.NewFromInt(100),
		Balance:     decimal.Zero,
		Status:      entity.InvoiceStatusPaid,
		IssuedOn:    time.Now(),
		SyncedAt:    time.Now(),
		RawSnapshot: []byte(`{"Id":"42"}`),
	}
	require.NoError(t, repo.UpsertByExternalID(context.Background(), invoice))
	assert.NotEqual(t, uuid.Nil, invoice.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_UpsertRequiresExternalID(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())

	err := repo.UpsertByExternalID(context.Background(), &entity.Invoice{})
	assert.Error(t, err)
}

func TestInvoiceRepository_DeleteMissingIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())

	mock.ExpectExec(`DELETE FROM "invoices" WHERE external_id = \$1`).
		WithArgs("42").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "invoices" WHERE external_id = \$1`).
		WithArgs("42").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.DeleteByExternalID(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteByExternalID(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "external_id", "number", "amount", "balance", "status"}).
		AddRow(id.String(), "42", "1001", "250.00", "0.00", "paid")
	mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE id = \$1`).
		WillReturnRows(rows)

	invoice, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, invoice)
	assert.Equal(t, id, invoice.ID)
	assert.Equal(t, "42", *invoice.ExternalID)
	assert.True(t, invoice.Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, entity.InvoiceStatusPaid, invoice.Status)
}

func TestCompanyRepository_ListMapped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)
	c1 := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "companies" WHERE external_customer_id IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "external_customer_id"}).
			AddRow(c1.String(), "Acme", "CUST-1"))

	companies, err := repo.ListMapped(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, c1, companies[0].ID)
	assert.Equal(t, "CUST-1", *companies[0].ExternalCustomerID)
}
