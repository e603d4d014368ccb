package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/config"
)

// ErrNoPool is returned by Ping when no DSN was configured.
var ErrNoPool = errors.New("access store not configured")

// AccessStore owns the pool behind the department, profile and directory tables.
// A store opened without a DSN has no pool; repositories built on it fail every
// query and readiness reports ErrNoPool.
type AccessStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// OpenAccessStore connects to postgres. An empty DSN yields a store without a pool.
func OpenAccessStore(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*AccessStore, error) {
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; access store disabled")
		return &AccessStore{logger: logger}, nil
	}

	poolCfg, err := accessPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open access store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping access store: %w", err)
	}

	conn := poolCfg.ConnConfig
	logger.Info("access store connected",
		zap.String("database", conn.Database),
		zap.String("host", conn.Host),
		zap.String("application_name", conn.RuntimeParams["application_name"]),
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Int32("min_conns", poolCfg.MinConns),
	)
	return &AccessStore{pool: pool, logger: logger}, nil
}

// accessPoolConfig applies the portal's pool sizing to the parsed DSN. An
// application_name already present in the DSN wins over the configured one.
func accessPoolConfig(cfg config.PostgresConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse POSTGRES_DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = min(cfg.MinConns, poolCfg.MaxConns)
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	params := poolCfg.ConnConfig.RuntimeParams
	if params["application_name"] == "" && cfg.ApplicationName != "" {
		params["application_name"] = cfg.ApplicationName
	}
	return poolCfg, nil
}

// Ping backs the readiness endpoint.
func (s *AccessStore) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return ErrNoPool
	}
	return s.pool.Ping(ctx)
}

// Pool returns the pgx pool for repository construction. It is nil when the store
// is disabled.
func (s *AccessStore) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

// Close releases pool resources.
func (s *AccessStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
	s.logger.Info("access store closed")
}
