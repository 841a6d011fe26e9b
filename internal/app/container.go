package app

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	handlers "github.com/wekeepgrowing/semo-accounting/internal/adapter/handler/http"
	"github.com/wekeepgrowing/semo-accounting/internal/adapter/repository"
	"github.com/wekeepgrowing/semo-accounting/internal/config"
	"github.com/wekeepgrowing/semo-accounting/internal/infrastructure/crypto"
	"github.com/wekeepgrowing/semo-accounting/internal/infrastructure/database"
	httpServer "github.com/wekeepgrowing/semo-accounting/internal/infrastructure/http"
	"github.com/wekeepgrowing/semo-accounting/internal/infrastructure/metrics"
	"github.com/wekeepgrowing/semo-accounting/internal/infrastructure/provider/quickbooks"
	"github.com/wekeepgrowing/semo-accounting/internal/usecase"
	"github.com/wekeepgrowing/semo-accounting/pkg/messaging"
)

// Container owns every long-lived dependency of the service
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *gorm.DB
	Registry *prometheus.Registry
	Repos    *database.Repositories

	Tokens        *usecase.TokenService
	Authorization *usecase.AuthorizationService
	Sync          *usecase.SyncService
	Webhook       *usecase.WebhookService
	Status        *usecase.StatusService
	Customers     *usecase.CustomerService
	Invoices      *usecase.InvoiceService

	publisher messaging.Publisher
}

// New connects to the database (migrating when configured) and builds the container
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, logger); err != nil {
			_ = database.Close(db, logger)
			return nil, err
		}
	}

	c, err := Build(cfg, db, logger)
	if err != nil {
		_ = database.Close(db, logger)
		return nil, err
	}
	return c, nil
}

// Build wires services on top of an open database handle
func Build(cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*Container, error) {
	var sealer repository.TokenSealer
	key, err := cfg.QuickBooks.EncryptionKey()
	if err != nil {
		return nil, fmt.Errorf("invalid token encryption key: %w", err)
	}
	if key != nil {
		aes, err := crypto.NewAESSealer(key)
		if err != nil {
			return nil, err
		}
		sealer = aes
	} else {
		logger.Warn("Token encryption key not configured, credentials are stored unsealed")
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Registry: prometheus.NewRegistry(),
		Repos:    database.NewRepositories(db, sealer, logger),
	}
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(c.Registry)

	var publisher usecase.EventPublisher
	if cfg.Redis.Enabled() {
		p, err := messaging.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel)
		if err != nil {
			return nil, err
		}
		c.publisher = p
		publisher = p
		logger.Info("Publishing invoice events", zap.String("redis_addr", cfg.Redis.Addr))
	}

	httpClient := &http.Client{Timeout: cfg.QuickBooks.RequestTimeout}
	oauth := quickbooks.NewOAuth(quickbooks.OAuthConfig{
		ClientID:     cfg.QuickBooks.ClientID,
		ClientSecret: cfg.QuickBooks.ClientSecret,
		RedirectURL:  cfg.QuickBooks.RedirectURL,
		AuthURL:      cfg.QuickBooks.AuthURL,
		TokenURL:     cfg.QuickBooks.TokenURL,
		Scope:        cfg.QuickBooks.Scope,
	}, httpClient)
	clients := quickbooks.NewClientFactory(quickbooks.ClientConfig{
		BaseURL:           cfg.QuickBooks.BaseURL(),
		MinorVersion:      cfg.QuickBooks.MinorVersion,
		QueryMaxResults:   cfg.QuickBooks.QueryMaxResults,
		RequestsPerMinute: cfg.QuickBooks.RequestsPerMinute,
		Timeout:           cfg.QuickBooks.RequestTimeout,
	}, httpClient, logger)

	c.Tokens = usecase.NewTokenService(c.Repos.Credential, oauth, m, logger)
	c.Authorization = usecase.NewAuthorizationService(oauth, c.Tokens, logger)
	c.Sync = usecase.NewSyncService(c.Tokens, clients, c.Repos.Invoice, c.Repos.Company, publisher, m, logger)
	c.Webhook = usecase.NewWebhookService(cfg.QuickBooks.WebhookVerifierToken, c.Tokens, clients,
		c.Repos.Invoice, c.Repos.Company, publisher, m, logger)
	c.Status = usecase.NewStatusService(c.Tokens, clients, logger)
	c.Customers = usecase.NewCustomerService(c.Tokens, clients)
	c.Invoices = usecase.NewInvoiceService(c.Repos.Invoice, c.Tokens, clients)

	if cfg.QuickBooks.WebhookVerifierToken == "" {
		logger.Warn("Webhook verifier token not configured, every webhook delivery will be rejected")
	}

	return c, nil
}

func (c *Container) HTTPHandlers() httpServer.Handlers {
	return httpServer.Handlers{
		OAuth: handlers.NewOAuthHandler(c.Authorization, c.Config.Service.SettingsURL, handlers.OAuthCookieConfig{
			MaxAge: c.Config.Session.MaxAge,
			Secure: c.Config.Session.Secure,
		}, c.Logger),
		Accounting: handlers.NewAccountingHandler(c.Status, c.Sync, c.Customers, c.Logger),
		Webhook:    handlers.NewWebhookHandler(c.Webhook, c.Logger),
		Invoice:    handlers.NewInvoiceHandler(c.Invoices, c.Logger),
	}
}

func (c *Container) Close() {
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			c.Logger.Warn("Failed to close event publisher", zap.Error(err))
		}
	}
	if err := database.Close(c.DB, c.Logger); err != nil {
		c.Logger.Error("Failed to close database connection", zap.Error(err))
	}
}
