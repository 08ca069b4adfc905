package projectstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/config"
)

// Open selects a backend from configuration. PROJECT_STORE names one
// explicitly (memory, sqlite, postgres, redis); otherwise DATABASE_URL
// selects Postgres and the fallback is lite mode on SQLite.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	logger := slog.Default().With("component", "projectstore")

	kind := strings.ToLower(cfg.ProjectStore)
	if kind == "" {
		if cfg.DatabaseURL != "" {
			kind = "postgres"
		} else {
			kind = "sqlite"
		}
	}

	switch kind {
	case "memory":
		logger.Info("using in-memory project store")
		return NewMemoryStore(), nil
	case "sqlite":
		logger.Info("lite mode: using sqlite project store", "path", cfg.SQLitePath)
		return OpenSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("projectstore: postgres requires DATABASE_URL")
		}
		logger.Info("using postgres project store")
		return OpenPostgres(ctx, cfg.DatabaseURL)
	case "redis":
		s := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, 0)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("projectstore: redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("using redis project store", "addr", cfg.RedisAddr)
		return s, nil
	default:
		return nil, fmt.Errorf("projectstore: unknown store %q", cfg.ProjectStore)
	}
}
