package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSlotsTable = `CREATE TABLE IF NOT EXISTS storage_slots (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresSlot keeps a slot as one row of the storage_slots table.
type PostgresSlot struct {
	pool  *pgxpool.Pool
	key   string
	owned bool
}

// OpenPostgresSlot connects, verifies the connection and ensures the table.
func OpenPostgresSlot(ctx context.Context, databaseURL, key string) (*PostgresSlot, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slot := &PostgresSlot{pool: pool, key: key, owned: true}
	if err := slot.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return slot, nil
}

// EnsureSchema creates the storage_slots table if it does not exist.
func (s *PostgresSlot) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createSlotsTable); err != nil {
		return fmt.Errorf("failed to create storage_slots table: %w", err)
	}
	return nil
}

// Sibling returns a slot for another key sharing this slot's pool.
func (s *PostgresSlot) Sibling(key string) *PostgresSlot {
	return &PostgresSlot{pool: s.pool, key: key}
}

// Key returns the slot key.
func (s *PostgresSlot) Key() string { return s.key }

// Read selects the slot row.
func (s *PostgresSlot) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM storage_slots WHERE key = $1`,
		s.key,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", s.key, err)
	}
	return data, nil
}

// Write upserts the slot row.
func (s *PostgresSlot) Write(ctx context.Context, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO storage_slots (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		s.key, data,
	)
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", s.key, err)
	}
	return nil
}

// Close closes the connection pool if this slot opened it.
func (s *PostgresSlot) Close() error {
	if s.owned && s.pool != nil {
		s.pool.Close()
	}
	return nil
}
