package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/model"
	"github.com/wekeepgrowing/semo-accounting/internal/domain/repository"
)

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) repository.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) ListMapped(ctx context.Context) ([]*entity.Company, error) {
	var rows []model.Company
	err := r.db.WithContext(ctx).
		Where("external_customer_id IS NOT NULL AND external_customer_id <> ''").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	companies := make([]*entity.Company, 0, len(rows))
	for i := range rows {
		companies = append(companies, &entity.Company{
			ID:                 rows[i].ID,
			Name:               rows[i].Name,
			ExternalCustomerID: rows[i].ExternalCustomerID,
		})
	}
	return companies, nil
}
