package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func OpenDB(dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	config.MaxConns = 20
	config.MaxConnIdleTime = 20 * time.Second
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS records (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL
	)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}
	if _, err = pool.Exec(ctx, `ALTER TABLE records ADD COLUMN IF NOT EXISTS expires_at TIMESTAMPTZ`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("add expires_at column: %w", err)
	}

	return pool, nil
}

// PostgresStore keeps records in a single name/body table.
type PostgresStore struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresStore(db *pgxpool.Pool, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var body string
	err := s.db.QueryRow(ctx, `SELECT body FROM records
		WHERE name = $1 AND (expires_at IS NULL OR expires_at > now())`, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrRecordNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select record %s: %w", key, err)
	}
	return body, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
		if _, err := s.db.Exec(ctx, "DELETE FROM records WHERE expires_at <= now()"); err != nil {
			return fmt.Errorf("sweep expired records: %w", err)
		}
	}

	stmt := `INSERT INTO records (name, body, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, expires_at = EXCLUDED.expires_at`
	if _, err := s.db.Exec(ctx, stmt, key, value, expiresAt); err != nil {
		return fmt.Errorf("upsert record %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.Exec(ctx, "DELETE FROM records WHERE name = $1", key); err != nil {
		return fmt.Errorf("delete record %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
