package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/wekeepgrowing/semo-accounting/internal/domain/errors"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
)

type CustomerSearchQuery struct {
	Term string `validate:"required,min=2,max=100"`
}

// CustomerService finds provider customers so operators can link them to local companies
type CustomerService struct {
	tokens   TokenProvider
	clients  provider.ClientFactory
	validate *validator.Validate
}

func NewCustomerService(tokens TokenProvider, clients provider.ClientFactory) *CustomerService {
	return &CustomerService{
		tokens:   tokens,
		clients:  clients,
		validate: validator.New(),
	}
}

func (s *CustomerService) Search(ctx context.Context, term string) ([]*provider.Customer, error) {
	query := CustomerSearchQuery{Term: strings.TrimSpace(term)}
	if err := s.validate.Struct(query); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidSearchTerm, err)
	}

	accessToken, realmID, err := s.tokens.GetValidAccessToken(ctx, "")
	if err != nil {
		return nil, err
	}

	return s.clients.NewClient(realmID, accessToken).SearchCustomers(ctx, query.Term)
}
