// Package app wires configuration into the storage, lock and service layers
// shared by the server and scheduler binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/receipt-debt-engine/internal/config"
	"github.com/segyhp/receipt-debt-engine/internal/domain"
	"github.com/segyhp/receipt-debt-engine/internal/lock"
	"github.com/segyhp/receipt-debt-engine/internal/repository"
	"github.com/segyhp/receipt-debt-engine/internal/service"
)

const lockPrefix = "receipt-debt:lock:"

type App struct {
	DB       *sqlx.DB
	Redis    *redis.Client
	Debts    *service.DebtService
	Receipts *service.ReceiptPaymentService
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := initDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	a := &App{DB: db}

	var locker lock.Locker
	switch cfg.Lock.Backend {
	case config.LockBackendMemory:
		logger.Warn("using in-memory debt locks, run a single instance only")
		locker = lock.NewMemoryLocker(cfg.Lock.Wait)
	default:
		client, err := initRedis(ctx, cfg)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.Redis = client
		locker = lock.NewRedisLocker(client, lockPrefix, cfg.Lock.Wait)
	}

	repos := repository.NewRepositories(db)
	uow := repository.NewUnitOfWork(db)
	clock := domain.SystemClock{}

	a.Debts = service.NewDebtService(repos, uow, locker, clock, cfg, logger)
	a.Receipts = service.NewReceiptPaymentService(repos, uow, a.Debts, clock, logger)
	return a, nil
}

// RedisCmdable returns the redis client for health checks, or nil without one
func (a *App) RedisCmdable() redis.Cmdable {
	if a.Redis == nil {
		return nil
	}
	return a.Redis
}

func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	a.DB.Close()
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Redis.URL != "" {
		parsed, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
