package app

import (
	"context"
	"database/sql"

	"github.com/ragavi522/knee-prime-assessment/internal/config"
	"github.com/ragavi522/knee-prime-assessment/internal/db"
	"github.com/ragavi522/knee-prime-assessment/internal/logger"
	"github.com/ragavi522/knee-prime-assessment/internal/redis"
	"github.com/ragavi522/knee-prime-assessment/internal/session"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB          *db.DB
	Persistence session.Persistence
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := db.RunPortalMigration(ctx, sqlDB); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	var persistence session.Persistence

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}

		logger.Info("redis ready", nil)
		persistence = session.NewRedisStore(redisClient.Client)
	} else {
		// Local runs only: sessions do not survive a restart.
		logger.Warn("REDIS_ADDR not set, using in-memory session persistence", nil)
		persistence = session.NewMemoryStore()
	}

	return &Infra{
		DB:          &db.DB{DB: sqlDB},
		Persistence: persistence,
	}, nil
}
