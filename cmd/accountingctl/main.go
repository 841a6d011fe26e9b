// Command accountingctl runs accounting sync operations from the shell.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wekeepgrowing/semo-accounting/internal/app"
	"github.com/wekeepgrowing/semo-accounting/internal/config"
	"github.com/wekeepgrowing/semo-accounting/internal/infrastructure/database"
	"github.com/wekeepgrowing/semo-accounting/pkg/logger"
)

func main() {
	if err := newRootCmd(loadRuntime).Execute(); err != nil {
		os.Exit(1)
	}
}

// loadRuntime builds the full container; database auto-migration is left to the migrate command
func loadRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Database.AutoMigrate = false

	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	c, err := app.New(cfg, zapLogger)
	if err != nil {
		return nil, err
	}

	return &runtime{
		syncer:     c.Sync,
		connection: c.Status,
		migrate: func(ctx context.Context) error {
			return database.Migrate(c.DB.WithContext(ctx), zapLogger)
		},
		close: func() {
			c.Close()
			_ = zapLogger.Sync()
		},
	}, nil
}
