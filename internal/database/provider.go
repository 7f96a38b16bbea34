package database

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/vendas/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Conn is a connection scoped to a single operation. Close hands it back.
type Conn interface {
	DBTX
	Close()
}

// Provider hands out connections from a pgx pool. Every service call opens
// its own connection and closes it on all exit paths.
type Provider struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// NewProvider wraps an existing pool.
func NewProvider(pool *pgxpool.Pool) *Provider {
	return &Provider{pool: pool}
}

// Connect builds a pool from cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.DatabaseConfig) (*Provider, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	p := &Provider{pool: pool, acquireTimeout: cfg.ConnectTimeout}
	if err := p.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// Open acquires a connection. The caller must Close it.
func (p *Provider) Open(ctx context.Context) (Conn, error) {
	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}

	c, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return poolConn{c}, nil
}

// Ping checks that the database is reachable.
func (p *Provider) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close closes every connection in the pool.
func (p *Provider) Close() {
	p.pool.Close()
}

type poolConn struct {
	*pgxpool.Conn
}

func (c poolConn) Close() {
	c.Release()
}
