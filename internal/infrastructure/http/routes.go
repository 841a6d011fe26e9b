package http

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/wekeepgrowing/semo-accounting/internal/middleware/auth"
)

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
			"version": s.config.Service.Version,
		})
	})
	s.echo.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: s.registry}))

	authenticated := auth.JWTMiddleware(auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
	})
	admin := []echo.MiddlewareFunc{authenticated, auth.RequireRole(s.config.JWT.AdminRole, s.logger)}

	store := sessions.NewCookieStore([]byte(s.config.Session.Secret))

	v1 := s.echo.Group("/api/v1")

	// OAuth handshake; the callback is reached through a provider redirect and carries no JWT
	oauth := v1.Group("/accounting/oauth", session.Middleware(store))
	oauth.GET("/authorize", s.handlers.OAuth.Authorize, admin...)
	oauth.GET("/callback", s.handlers.OAuth.Callback)

	v1.GET("/accounting/status", s.handlers.Accounting.Status, admin...)
	v1.POST("/accounting/sync", s.handlers.Accounting.Sync, admin...)
	v1.POST("/accounting/disconnect", s.handlers.Accounting.Disconnect, admin...)
	v1.GET("/accounting/customers", s.handlers.Accounting.SearchCustomers, admin...)

	v1.GET("/invoices/:id/pdf", s.handlers.Invoice.DownloadPDF, authenticated)

	// Provider webhooks (signature verified in the handler)
	s.echo.POST("/webhooks/accounting", s.handlers.Webhook.HandleWebhook)
	s.echo.GET("/webhooks/accounting", s.handlers.Webhook.Challenge)
}
