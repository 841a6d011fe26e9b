package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Invoice mirrors an external invoice; external_id is the upsert conflict key
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ExternalID  *string         `gorm:"column:external_id;uniqueIndex;size:64"`
	Number      string          `gorm:"column:number;size:64"`
	CompanyID   uuid.UUID       `gorm:"column:company_id;type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(15,2);not null"`
	Balance     decimal.Decimal `gorm:"column:balance;type:decimal(15,2);not null"`
	Status      string          `gorm:"column:status;size:20;not null;index"`
	IssuedOn    time.Time       `gorm:"column:issued_on;type:date"`
	DueOn       *time.Time      `gorm:"column:due_on;type:date"`
	SyncedAt    time.Time       `gorm:"column:synced_at"`
	RawSnapshot datatypes.JSON  `gorm:"column:raw_snapshot;type:jsonb"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}
