package entity

import "time"

// RefreshBuffer is how long before access token expiry a refresh is forced
const RefreshBuffer = 5 * time.Minute

// Credential is the OAuth2 token pair stored for one realm (external tenant)
type Credential struct {
	RealmID               string    `json:"realm_id"`
	AccessToken           string    `json:"-"`
	RefreshToken          string    `json:"-"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// RefreshExpired reports whether the refresh token can no longer be used
func (c *Credential) RefreshExpired(now time.Time) bool {
	return c.RefreshTokenExpiresAt.Before(now)
}

// NeedsRefresh reports whether the access token is expired or inside RefreshBuffer
func (c *Credential) NeedsRefresh(now time.Time) bool {
	return !c.AccessTokenExpiresAt.Add(-RefreshBuffer).After(now)
}
