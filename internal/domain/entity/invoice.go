package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice is the local mirror of one external invoice
type Invoice struct {
	ID          uuid.UUID       `json:"id"`
	ExternalID  *string         `json:"external_id,omitempty"`
	Number      string          `json:"number"`
	CompanyID   uuid.UUID       `json:"company_id"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Status      InvoiceStatus   `json:"status"`
	IssuedOn    time.Time       `json:"issued_on"`
	DueOn       *time.Time      `json:"due_on,omitempty"`
	SyncedAt    time.Time       `json:"synced_at"`
	RawSnapshot json.RawMessage `json:"raw_snapshot,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DeriveStatus is the only place an invoice status is decided.
//
// A zero balance is paid regardless of due date. Otherwise the invoice is overdue
// when dueOn is strictly before now; dueOn == now is still unpaid. A missing due
// date (zero time) never becomes overdue.
func DeriveStatus(balance decimal.Decimal, dueOn time.Time, now time.Time) InvoiceStatus {
	if balance.IsZero() {
		return InvoiceStatusPaid
	}
	if !dueOn.IsZero() && dueOn.Before(now) {
		return InvoiceStatusOverdue
	}
	return InvoiceStatusUnpaid
}
