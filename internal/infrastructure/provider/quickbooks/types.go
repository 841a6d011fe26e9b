package quickbooks

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
)

const dateLayout = "2006-01-02"

type queryResponse struct {
	QueryResponse struct {
		Invoice       []json.RawMessage `json:"Invoice"`
		Customer      []customerDTO     `json:"Customer"`
		StartPosition int               `json:"startPosition"`
		MaxResults    int               `json:"maxResults"`
	} `json:"QueryResponse"`
}

type invoiceEnvelope struct {
	Invoice json.RawMessage `json:"Invoice"`
}

type invoiceDTO struct {
	ID          string             `json:"Id"`
	DocNumber   string             `json:"DocNumber"`
	TxnDate     string             `json:"TxnDate"`
	DueDate     string             `json:"DueDate"`
	TotalAmt    decimal.Decimal    `json:"TotalAmt"`
	Balance     decimal.Decimal    `json:"Balance"`
	CustomerRef provider.Reference `json:"CustomerRef"`
	MetaData    struct {
		LastUpdatedTime string `json:"LastUpdatedTime"`
	} `json:"MetaData"`
}

type customerDTO struct {
	ID               string `json:"Id"`
	DisplayName      string `json:"DisplayName"`
	CompanyName      string `json:"CompanyName"`
	Active           bool   `json:"Active"`
	PrimaryEmailAddr *struct {
		Address string `json:"Address"`
	} `json:"PrimaryEmailAddr"`
}

// decodeInvoice keeps raw as the invoice snapshot
func decodeInvoice(raw json.RawMessage) (*provider.Invoice, error) {
	var dto invoiceDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}

	invoice := &provider.Invoice{
		ID:          dto.ID,
		DocNumber:   dto.DocNumber,
		TotalAmt:    dto.TotalAmt,
		Balance:     dto.Balance,
		CustomerRef: dto.CustomerRef,
		Raw:         raw,
	}

	if dto.TxnDate != "" {
		t, err := time.Parse(dateLayout, dto.TxnDate)
		if err != nil {
			return nil, err
		}
		invoice.TxnDate = t
	}
	if dto.DueDate != "" {
		t, err := time.Parse(dateLayout, dto.DueDate)
		if err != nil {
			return nil, err
		}
		invoice.DueDate = &t
	}
	if dto.MetaData.LastUpdatedTime != "" {
		if t, err := time.Parse(time.RFC3339, dto.MetaData.LastUpdatedTime); err == nil {
			invoice.UpdatedAt = t
		}
	}

	return invoice, nil
}

// invoiceID recovers the id from a payload that failed full decoding
func invoiceID(raw json.RawMessage) string {
	var partial struct {
		ID string `json:"Id"`
	}
	_ = json.Unmarshal(raw, &partial)
	return partial.ID
}

func (c customerDTO) toCustomer() *provider.Customer {
	customer := &provider.Customer{
		ID:          c.ID,
		DisplayName: c.DisplayName,
		CompanyName: c.CompanyName,
		Active:      c.Active,
	}
	if c.PrimaryEmailAddr != nil {
		customer.Email = c.PrimaryEmailAddr.Address
	}
	return customer
}
