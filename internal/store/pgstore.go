package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists values in a Postgres key-value table, sharing the
// platform database the other services use. Selected with
// STORAGE_BACKEND=postgres.
type PGStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewPGPool creates a pgx pool from a DSN and verifies connectivity.
func NewPGPool(dsn string) (*pgxpool.Pool, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	log.Printf("[store] Connected to PostgreSQL")
	return pool, nil
}

// NewPGStore ensures the schema and kv table exist.
func NewPGStore(ctx context.Context, pool *pgxpool.Pool, schema string) (*PGStore, error) {
	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.kv_state (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, schema)
	if _, err := pool.Exec(ctx, query); err != nil {
		return nil, fmt.Errorf("create kv_state table: %w", err)
	}

	return &PGStore{pool: pool, schema: schema}, nil
}

func (s *PGStore) Get(key string, out any) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := fmt.Sprintf("SELECT value FROM %s.kv_state WHERE key = $1", s.schema)

	var data []byte
	if err := s.pool.QueryRow(ctx, query, key).Scan(&data); err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("[PGStore] Discarding corrupt value for %q: %v", key, err)
		return false
	}
	return true
}

func (s *PGStore) Put(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[PGStore] Serialize %q: %v", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := fmt.Sprintf(`
		INSERT INTO %s.kv_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, s.schema)

	if _, err := s.pool.Exec(ctx, query, key, data); err != nil {
		log.Printf("[PGStore] Write %q: %v", key, err)
	}
}
