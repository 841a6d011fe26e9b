package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	handlers "github.com/wekeepgrowing/semo-accounting/internal/adapter/handler/http"
	"github.com/wekeepgrowing/semo-accounting/internal/config"
	"github.com/wekeepgrowing/semo-accounting/pkg/logger"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	OAuth      *handlers.OAuthHandler
	Accounting *handlers.AccountingHandler
	Webhook    *handlers.WebhookHandler
	Invoice    *handlers.InvoiceHandler
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	server   *http.Server
	handlers Handlers
	registry *prometheus.Registry
}

func NewServer(cfg *config.Config, h Handlers, registry *prometheus.Registry, zapLogger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(logger.NewEchoRequestLogger(zapLogger))
	logger.WithEchoLogger(e, zapLogger)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.HTTP.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  config.ServiceName,
		Subsystem:  "http",
		Registerer: registry,
	}))

	s := &Server{
		config:   cfg,
		logger:   zapLogger,
		echo:     e,
		handlers: h,
		registry: registry,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port),
			ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
			WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		},
	}
	s.setupRoutes()
	return s
}

// Router exposes the echo instance for tests
func (s *Server) Router() *echo.Echo {
	return s.echo
}

func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.server.Addr))

	err := s.echo.StartServer(s.server)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}
