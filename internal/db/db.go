package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// connectBackoffBase is the first delay between connection attempts.
const connectBackoffBase = 200 * time.Millisecond

// DB wraps a pgx connection pool for the record and result stores.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Connect is New with exponential backoff, for a database that may still be
// starting. retries is the number of attempts after the first.
func Connect(ctx context.Context, dsn string, retries uint64) (*DB, error) {
	b := retry.WithMaxRetries(retries, retry.NewExponential(connectBackoffBase))
	attempt := 0
	return retry.DoValue(ctx, b, func(ctx context.Context) (*DB, error) {
		attempt++
		d, err := New(ctx, dsn)
		if err != nil {
			slog.Debug("database not ready", "attempt", attempt, "error", err)
			return nil, retry.RetryableError(err)
		}
		return d, nil
	})
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Records returns a RecordRepository on this pool.
func (d *DB) Records() *RecordRepository {
	return NewRecordRepository(d.pool)
}

// Results returns a ResultRepository on this pool.
func (d *DB) Results() *ResultRepository {
	return NewResultRepository(d.pool)
}
