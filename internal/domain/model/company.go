package model

import "github.com/google/uuid"

// Company is owned by the company domain; only the columns read here are mapped.
type Company struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name               string    `gorm:"column:name;size:255"`
	ExternalCustomerID *string   `gorm:"column:external_customer_id;index;size:64"`
}

// TableName specifies the table name for GORM
func (Company) TableName() string {
	return "companies"
}
