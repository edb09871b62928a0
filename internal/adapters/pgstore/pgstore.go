// Package pgstore provides a PostgreSQL-backed ports.Storage. Session data
// lives in a single key-value table so BFF-style deployments can share an
// existing database instead of running Redis.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/stardyn/authkit/internal/errors"
	"github.com/stardyn/authkit/internal/ports"
)

const opTimeout = 5 * time.Second

// Schema is the DDL for the backing table. Callers apply it once at
// deployment time; the store itself never mutates schema.
const Schema = `
CREATE TABLE IF NOT EXISTS auth_storage (
    prefix     TEXT        NOT NULL,
    key        TEXT        NOT NULL,
    value      TEXT        NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (prefix, key)
);`

// Store is a PostgreSQL-backed key-value store scoped by prefix.
type Store struct {
	pool   *pgxpool.Pool
	prefix string
}

var _ ports.Storage = (*Store)(nil)

// New creates a PostgreSQL-backed store scoped to the given prefix.
func New(pool *pgxpool.Pool, prefix string) *Store {
	return &Store{
		pool:   pool,
		prefix: prefix,
	}
}

// Get returns the value for key, and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	ctx, cancel := s.opContext()
	defer cancel()

	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM auth_storage WHERE prefix = $1 AND key = $2`,
		s.prefix, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

// Set stores the value for key.
func (s *Store) Set(key, value string) error {
	if key == "" {
		return errors.New("storage key cannot be empty")
	}

	ctx, cancel := s.opContext()
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO auth_storage (prefix, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (prefix, key) DO UPDATE SET value = $3, updated_at = now()`,
		s.prefix, key, value)
	if err != nil {
		return classify(err, "set")
	}
	return nil
}

// Delete removes the value for key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	ctx, cancel := s.opContext()
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`DELETE FROM auth_storage WHERE prefix = $1 AND key = $2`,
		s.prefix, key)
	if err != nil {
		return classify(err, "delete")
	}
	return nil
}

// Clear removes every key under the store's prefix.
func (s *Store) Clear() error {
	ctx, cancel := s.opContext()
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`DELETE FROM auth_storage WHERE prefix = $1`, s.prefix)
	if err != nil {
		return classify(err, "clear")
	}
	return nil
}

// classify maps database errors into the app taxonomy. A missing table
// means the deployment never applied Schema, which is a configuration
// problem, not a runtime one.
func classify(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return apperrors.Wrap(err, apperrors.ErrCodeConfig, "auth_storage table missing, apply pgstore.Schema")
	}
	return fmt.Errorf("pgstore %s: %w", op, err)
}

func (s *Store) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
