package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-authgate/eventgate/internal/config"
	"github.com/go-authgate/eventgate/internal/store"
)

// initializeDatabase opens the user, event, reset and audit tables, migrating
// them if needed, within DB_INIT_TIMEOUT.
func initializeDatabase(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()

	db, err := store.New(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DatabaseDriver, err)
	}

	attrs := []any{"driver", cfg.DatabaseDriver}
	if cfg.DatabaseDriver == config.DatabaseDriverSQLite {
		// Postgres DSNs carry credentials and are never logged.
		attrs = append(attrs, "path", cfg.DatabaseDSN)
	}
	if users, err := db.CountUsers(ctx); err == nil {
		attrs = append(attrs, "users", users)
	}
	slog.Info("database ready", attrs...)
	return db, nil
}
