package usecase

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	domainErrors "github.com/wekeepgrowing/semo-accounting/internal/domain/errors"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/repository"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type InvoicePDF struct {
	Filename string
	Content  []byte
}

type InvoiceService struct {
	invoices repository.InvoiceRepository
	tokens   TokenProvider
	clients  provider.ClientFactory
}

func NewInvoiceService(invoices repository.InvoiceRepository, tokens TokenProvider, clients provider.ClientFactory) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		tokens:   tokens,
		clients:  clients,
	}
}

// GetPDF fetches the provider rendering of a synced invoice
func (s *InvoiceService) GetPDF(ctx context.Context, invoiceID uuid.UUID) (*InvoicePDF, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice == nil {
		return nil, domainErrors.ErrInvoiceNotFound
	}
	if invoice.ExternalID == nil || *invoice.ExternalID == "" {
		return nil, domainErrors.ErrInvoiceNotSynced
	}

	accessToken, realmID, err := s.tokens.GetValidAccessToken(ctx, "")
	if err != nil {
		return nil, err
	}

	content, err := s.clients.NewClient(realmID, accessToken).GetInvoicePDF(ctx, *invoice.ExternalID)
	if err != nil {
		return nil, err
	}

	number := invoice.Number
	if number == "" {
		number = *invoice.ExternalID
	}

	return &InvoicePDF{
		Filename: fmt.Sprintf("invoice-%s.pdf", unsafeFilenameChars.ReplaceAllString(number, "_")),
		Content:  content,
	}, nil
}
