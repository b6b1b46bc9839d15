package pg

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PoolConfig struct {
	ConnStr string
}

// LoadPoolConfigFromEnv reads the database connection string, preferring
// DATABASE_URL over discrete DB_* settings.
func LoadPoolConfigFromEnv() PoolConfig {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return PoolConfig{ConnStr: url}
	}

	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5433")
	name := envOr("DB_NAME", "jeopardy")
	user := envOr("DB_USER", "jeopardy")
	password := envOr("DB_PASSWORD", "jeopardy")
	sslMode := envOr("DB_SSLMODE", "disable")

	return PoolConfig{
		ConnStr: fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			user, password, host, port, name, sslMode),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type ConnectionPool struct {
	conn *pgxpool.Pool
}

func NewConnectionPool(ctx context.Context, cfg PoolConfig) (*ConnectionPool, error) {
	dbpool, err := pgxpool.New(ctx, cfg.ConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return &ConnectionPool{conn: dbpool}, nil
}

func (p *ConnectionPool) GetConn() *pgxpool.Pool {
	return p.conn
}

// Begin opens a transaction on the pool. All writes of one grading attempt
// ride a single transaction so they commit or roll back as a unit.
func (p *ConnectionPool) Begin(ctx context.Context) (pgx.Tx, error) {
	return p.conn.Begin(ctx)
}

func (p *ConnectionPool) Close() {
	p.conn.Close()
}

func (p *ConnectionPool) Ping(ctx context.Context) error {
	c, err := p.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	defer c.Release()
	return c.Ping(ctx)
}
