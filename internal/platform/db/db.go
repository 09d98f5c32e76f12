package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"timetrack/internal/platform/config"
	"timetrack/internal/platform/querier"
)

// Pinger is a Querier that can also report connectivity, which is what the
// router needs for its readiness probe. *pgxpool.Pool satisfies it.
type Pinger interface {
	querier.Querier
	Ping(ctx context.Context) error
}

func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	return pgxpool.NewWithConfig(ctx, poolCfg)
}
