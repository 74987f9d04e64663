// cmd/migrate/main.go
package main

import (
	"context"
	"log/slog"
	"os"

	"finance-tracker/internal/backend"
	"finance-tracker/internal/config"
	"finance-tracker/internal/storage/sqlite"
)

func main() {
	cfg := config.MustLoad()
	ctx := context.Background()

	slog.Info("Применяем миграции", "backend", cfg.StorageBackend)

	switch cfg.StorageBackend {
	case config.BackendPostgres:
		if err := backend.MigratePostgres(ctx, cfg.DBConn); err != nil {
			slog.Error("Миграции завершились с ошибкой", "error", err)
			os.Exit(1)
		}
	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath, true)
		if err != nil {
			slog.Error("Миграции завершились с ошибкой", "error", err)
			os.Exit(1)
		}
		s.Close()
	default:
		slog.Info("Хранилище в памяти не требует миграций")
		return
	}

	slog.Info("✅ Миграции применены")
}
