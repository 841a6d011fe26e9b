package http

import (
	"net/http"
	"net/url"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/wekeepgrowing/semo-accounting/internal/domain/errors"
	"github.com/wekeepgrowing/semo-accounting/internal/usecase"
)

const (
	// OAuthSessionName is the cookie that carries the pending state value
	OAuthSessionName = "accounting_oauth"
	stateSessionKey  = "state"
)

type OAuthCookieConfig struct {
	MaxAge int
	Secure bool
}

type OAuthHandler struct {
	authorizer  Authorizer
	settingsURL string
	cookie      OAuthCookieConfig
	logger      *zap.Logger
}

func NewOAuthHandler(authorizer Authorizer, settingsURL string, cookie OAuthCookieConfig, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		authorizer:  authorizer,
		settingsURL: settingsURL,
		cookie:      cookie,
		logger:      logger,
	}
}

// Authorize binds a fresh state to the caller's cookie and redirects to the provider
func (h *OAuthHandler) Authorize(c echo.Context) error {
	state, authURL, err := h.authorizer.Begin()
	if err != nil {
		h.logger.Error("Failed to start authorization", zap.Error(err))
		return respondError(c, err)
	}

	sess, err := session.Get(OAuthSessionName, c)
	if sess == nil {
		h.logger.Error("OAuth session store unavailable", zap.Error(err))
		return respondError(c, err)
	}

	sess.Options = h.sessionOptions(h.cookie.MaxAge)
	sess.Values[stateSessionKey] = state
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		h.logger.Error("Failed to save OAuth state", zap.Error(err))
		return respondError(c, err)
	}

	return c.Redirect(http.StatusFound, authURL)
}

// Callback always clears the stored state and always redirects to the settings page
func (h *OAuthHandler) Callback(c echo.Context) error {
	var expected string

	// a cookie that fails to decode still yields an empty session
	sess, err := session.Get(OAuthSessionName, c)
	if err != nil {
		h.logger.Warn("OAuth state cookie could not be read", zap.Error(err))
	}
	if sess != nil {
		expected, _ = sess.Values[stateSessionKey].(string)
		delete(sess.Values, stateSessionKey)
		sess.Options = h.sessionOptions(-1)
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			h.logger.Warn("Failed to clear OAuth state", zap.Error(err))
		}
	}

	params := usecase.CallbackParams{
		Code:             c.QueryParam("code"),
		RealmID:          c.QueryParam("realmId"),
		State:            c.QueryParam("state"),
		Error:            c.QueryParam("error"),
		ErrorDescription: c.QueryParam("error_description"),
	}

	if _, err := h.authorizer.Complete(c.Request().Context(), expected, params); err != nil {
		return c.Redirect(http.StatusFound, h.settingsRedirect("error", domainErrors.CallbackReason(err)))
	}
	return c.Redirect(http.StatusFound, h.settingsRedirect("success", "connected"))
}

func (h *OAuthHandler) sessionOptions(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *OAuthHandler) settingsRedirect(key, value string) string {
	u, err := url.Parse(h.settingsURL)
	if err != nil {
		return h.settingsURL
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
