package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	postgresMaxPoolSize  = 2
	postgresConnAttempts = 5
	postgresConnTimeout  = time.Second

	postgresSchema = `CREATE TABLE IF NOT EXISTS alarm_clock_kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`
	postgresSelect = `SELECT value FROM alarm_clock_kv WHERE key = $1`
	postgresUpsert = `INSERT INTO alarm_clock_kv (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
)

// errEmptyDSN is returned when the postgres driver is selected without a DSN.
var errEmptyDSN = errors.New("postgres DSN must be provided")

// Postgres stores keys in a table of a PostgreSQL database.
type Postgres struct {
	// pool is the pgx connection pool.
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database, retrying a few times, and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errEmptyDSN
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres DSN: %w", err)
	}

	poolConfig.MaxConns = postgresMaxPoolSize

	var pool *pgxpool.Pool

	for attempt := 1; attempt <= postgresConnAttempts; attempt++ {
		pool, err = connectPostgres(ctx, poolConfig)
		if err == nil {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(postgresConnTimeout):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("connect postgres after %d attempts: %w", postgresConnAttempts, err)
	}

	if _, err = pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()

		return nil, fmt.Errorf("create postgres schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// connectPostgres creates a pool and pings it within the connection timeout.
func connectPostgres(ctx context.Context, poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	connectCtx, cancel := context.WithTimeout(ctx, postgresConnTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(connectCtx); err != nil {
		pool.Close()

		return nil, err
	}

	return pool, nil
}

// Get returns the value stored under key.
func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := p.pool.QueryRow(ctx, postgresSelect, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("select key %q: %w", key, err)
	}

	return value, nil
}

// Set upserts value under key.
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if _, err := p.pool.Exec(ctx, postgresUpsert, key, value); err != nil {
		return fmt.Errorf("upsert key %q: %w", key, err)
	}

	return nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}
