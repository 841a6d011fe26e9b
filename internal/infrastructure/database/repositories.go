package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wekeepgrowing/semo-accounting/internal/adapter/repository"
	domainRepo "github.com/wekeepgrowing/semo-accounting/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Credential domainRepo.CredentialRepository
	Invoice    domainRepo.InvoiceRepository
	Company    domainRepo.CompanyRepository
}

// NewRepositories creates repository instances; sealer may be nil to store tokens unsealed
func NewRepositories(db *gorm.DB, sealer repository.TokenSealer, logger *zap.Logger) *Repositories {
	return &Repositories{
		Credential: repository.NewCredentialRepository(db, sealer, logger),
		Invoice:    repository.NewInvoiceRepository(db, logger),
		Company:    repository.NewCompanyRepository(db),
	}
}
