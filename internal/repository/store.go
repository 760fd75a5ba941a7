package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-transparency/internal/config"
	"github.com/cmlabs-hris/payroll-transparency/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-transparency/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-transparency/internal/repository/aztable"
	"github.com/cmlabs-hris/payroll-transparency/internal/repository/cache"
	"github.com/cmlabs-hris/payroll-transparency/internal/repository/postgresql"
)

// OpenRecordRepository opens the configured record store, wrapped in the Redis cache
// when REDIS_ADDR is set. The returned func releases every connection it opened.
func OpenRecordRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (payroll.RecordRepository, func(), error) {
	if err := cfg.ValidateStore(); err != nil {
		return nil, nil, err
	}

	var (
		repo    payroll.RecordRepository
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Store.Backend {
	case config.StoreAzure:
		client, err := aztable.NewClient(cfg.Store.AzureConnectionString, cfg.Store.AzureTableName)
		if err != nil {
			return nil, nil, err
		}
		if err := aztable.EnsureTable(ctx, client); err != nil {
			return nil, nil, err
		}
		repo = aztable.NewRecordRepository(client)
		logger.Info("record store ready", "backend", config.StoreAzure, "table", cfg.Store.AzureTableName)

	case config.StorePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		closers = append(closers, db.Close)
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			closeAll()
			return nil, nil, err
		}
		repo = postgresql.NewRecordRepository(db)
		logger.Info("record store ready", "backend", config.StorePostgres, "database", cfg.Database.Name)
	}

	if cfg.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = client.Close() })
		repo = cache.NewRecordRepository(repo, client, cfg.Redis.TTL, logger)
		logger.Info("record cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	return repo, closeAll, nil
}
