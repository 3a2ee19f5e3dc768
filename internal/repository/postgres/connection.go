package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/senderkeys/database"
)

// Connection is the backup metadata database.
type Connection struct {
	*pgxpool.Pool
}

// NewConnection opens a pool, checks the database is reachable and migrates
// the schema.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	conn := &Connection{Pool: pool}
	if err := conn.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach backup database: %w", err)
	}

	if err := database.Migrate(ctx, dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate backup database: %w", err)
	}

	return conn, nil
}

// Close releases the pool.
func (s *Connection) Close() error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

// Ping checks that the database answers.
func (s *Connection) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return errors.New("connection pool is not initialized")
	}
	return s.Pool.Ping(ctx)
}
