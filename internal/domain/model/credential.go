package model

import "time"

// AccountingCredential stores the OAuth2 token pair for one QuickBooks realm
type AccountingCredential struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement"`
	RealmID               string    `gorm:"column:realm_id;uniqueIndex;not null;size:64"`
	AccessToken           string    `gorm:"column:access_token;type:text;not null"`
	RefreshToken          string    `gorm:"column:refresh_token;type:text;not null"`
	AccessTokenExpiresAt  time.Time `gorm:"column:access_token_expires_at;not null"`
	RefreshTokenExpiresAt time.Time `gorm:"column:refresh_token_expires_at;not null"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName specifies the table name for GORM
func (AccountingCredential) TableName() string {
	return "accounting_credentials"
}
