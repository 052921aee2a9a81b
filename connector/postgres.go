package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Konsultn-Engineering/sqlex/database"
	"github.com/Konsultn-Engineering/sqlex/dialect"
)

// PostgresConnector represents a PostgreSQL database connection backed
// by a pgx connection pool.
type PostgresConnector struct {
	config  Config
	pool    *pgxpool.Pool
	dialect dialect.Dialect
}

// newPostgresConnector creates a new PostgreSQL connector and connects
// immediately, honoring the configured retry policy.
func newPostgresConnector(cfg Config) (*PostgresConnector, error) {
	p := &PostgresConnector{
		config:  cfg,
		dialect: dialect.NewPostgresDialect(),
	}

	ctx := context.Background()
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if cfg.Retry != nil {
		if err := retryConnect(ctx, cfg.Retry, p.connect); err != nil {
			return nil, fmt.Errorf("failed to connect after %d retries: %w", cfg.Retry.MaxRetries, err)
		}
	} else if err := p.connect(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

// connect establishes the PostgreSQL connection.
func (p *PostgresConnector) connect(ctx context.Context) error {
	if p.pool != nil {
		return nil
	}

	cfg := p.config
	if cfg.Pool.MaxOpen <= 0 {
		cfg.Pool.MaxOpen = 10
	}
	if cfg.Pool.MaxIdle < 0 {
		cfg.Pool.MaxIdle = 5
	}
	if cfg.Pool.MaxLifetime == 0 {
		cfg.Pool.MaxLifetime = time.Hour
	}
	if cfg.Pool.MaxIdleTime == 0 {
		cfg.Pool.MaxIdleTime = 30 * time.Minute
	}

	poolCfg, err := pgxpool.ParseConfig(p.buildDSN())
	if err != nil {
		return err
	}

	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(cfg.Pool.MaxIdle)
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return err
	}

	p.pool = pool
	return nil
}

// buildDSN creates a PostgreSQL connection string.
func (p *PostgresConnector) buildDSN() string {
	return NewDSNBuilder("postgres").
		Auth(p.config.Username, p.config.Password).
		Host(p.config.Host, p.config.Port).
		Database(p.config.Database).
		Param("sslmode", p.config.SSLMode).
		Params(p.config.Params).
		Build()
}

// Database returns a database abstraction interface.
func (p *PostgresConnector) Database() database.Database {
	return database.NewPgxDatabase(p.pool)
}

// Dialect returns the PostgreSQL dialect.
func (p *PostgresConnector) Dialect() dialect.Dialect {
	return p.dialect
}

// Health checks the connection health.
func (p *PostgresConnector) Health(ctx context.Context) error {
	if p.pool == nil {
		return fmt.Errorf("not connected")
	}
	return p.pool.Ping(ctx)
}

// Stats returns connection pool statistics.
func (p *PostgresConnector) Stats() ConnectionStats {
	if p.pool == nil {
		return ConnectionStats{}
	}
	s := p.pool.Stat()
	return ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

// Close shuts down the connection pool.
func (p *PostgresConnector) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}
