// Package backend opens the record store selected by configuration.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"finance-tracker/internal/config"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/storage/memory"
	"finance-tracker/internal/storage/postgres"
	"finance-tracker/internal/storage/sqlite"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open returns a ready store. The caller owns it and must Close it.
func Open(ctx context.Context, cfg config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory, "":
		slog.Info("Используем in-memory хранилище")
		return memory.NewStorage(), nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if cfg.AutoMigrate {
			if err := MigratePostgres(ctx, cfg.DBConn); err != nil {
				pool.Close()
				return nil, err
			}
		}
		slog.Info("Используем postgres хранилище")
		return postgres.NewStorage(pool), nil

	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.AutoMigrate)
		if err != nil {
			return nil, err
		}
		slog.Info("Используем sqlite хранилище", "path", cfg.SQLitePath)
		return s, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// MigratePostgres applies migrations over a short-lived database/sql handle.
func MigratePostgres(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open postgres for migrations: %w", err)
	}
	defer db.Close()

	return storage.Migrate(ctx, db, "postgres")
}
