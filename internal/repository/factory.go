package repository

import (
	"fmt"

	"github.com/navikt/roombooking/internal/config"
	"github.com/navikt/roombooking/internal/repository/memory"
	"github.com/navikt/roombooking/internal/repository/redis"
	"github.com/navikt/roombooking/internal/repository/sqlite"
	"github.com/rs/zerolog"
)

// NewRepository creates the repository selected by cfg.Backend
func NewRepository(cfg config.StorageConfig, logger zerolog.Logger) (Repository, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		logger.Info().Msg("Using in-memory repository")
		return memory.NewRepository(), nil

	case config.BackendRedis:
		repo, err := redis.NewRepository(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis repository: %w", err)
		}
		if cfg.Redis.URI != "" {
			logger.Info().Msg("Using Redis repository (URI)")
		} else {
			logger.Info().Str("addr", cfg.Redis.Host+":"+cfg.Redis.Port).Msg("Using Redis repository")
		}
		return repo, nil

	case config.BackendSQLite:
		repo, err := sqlite.NewRepository(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite repository: %w", err)
		}
		logger.Info().Str("path", cfg.SQLite.Path).Msg("Using SQLite repository")
		return repo, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
