package quickbooks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/provider"
)

const (
	// used when the token endpoint omits x_refresh_token_expires_in
	defaultRefreshTokenLifetime = 100 * 24 * time.Hour
	defaultAccessTokenLifetime  = time.Hour
)

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	Scope        string
}

// OAuth implements provider.OAuthProvider on top of golang.org/x/oauth2.
// Client credentials are sent with HTTP Basic auth on every token call.
type OAuth struct {
	config     *oauth2.Config
	httpClient *http.Client
	now        func() time.Time
}

func NewOAuth(cfg OAuthConfig, httpClient *http.Client) *OAuth {
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{cfg.Scope},
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (o *OAuth) AuthCodeURL(state string) string {
	return o.config.AuthCodeURL(state)
}

func (o *OAuth) Exchange(ctx context.Context, code string) (*provider.TokenSet, error) {
	token, err := o.config.Exchange(o.withClient(ctx), code)
	if err != nil {
		return nil, asRequestFailed(err)
	}

	set := o.toTokenSet(token)
	if set.RefreshTokenExpiresAt.IsZero() {
		set.RefreshTokenExpiresAt = o.now().Add(defaultRefreshTokenLifetime)
	}
	return set, nil
}

// Refresh leaves RefreshTokenExpiresAt zero when the response does not state it,
// so the caller can keep the previous value.
func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (*provider.TokenSet, error) {
	source := o.config.TokenSource(o.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})

	token, err := source.Token()
	if err != nil {
		return nil, asRequestFailed(err)
	}
	return o.toTokenSet(token), nil
}

func (o *OAuth) withClient(ctx context.Context) context.Context {
	if o.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
}

func (o *OAuth) toTokenSet(token *oauth2.Token) *provider.TokenSet {
	now := o.now()

	accessExpiry := token.Expiry
	if accessExpiry.IsZero() {
		accessExpiry = now.Add(defaultAccessTokenLifetime)
	}

	set := &provider.TokenSet{
		AccessToken:          token.AccessToken,
		RefreshToken:         token.RefreshToken,
		AccessTokenExpiresAt: accessExpiry,
	}
	if secs, ok := seconds(token.Extra("x_refresh_token_expires_in")); ok {
		set.RefreshTokenExpiresAt = now.Add(time.Duration(secs) * time.Second)
	}
	return set
}

func seconds(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), n > 0
	case int64:
		return n, n > 0
	case json.Number:
		i, err := n.Int64()
		return i, err == nil && i > 0
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil && i > 0
	}
	return 0, false
}

func asRequestFailed(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		return &provider.RequestFailedError{
			StatusCode: re.Response.StatusCode,
			Body:       string(re.Body),
		}
	}
	return err
}
