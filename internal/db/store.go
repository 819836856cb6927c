package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultNamespace is used when a Store is created without one.
const DefaultNamespace = "default"

// Store is a key-value tier backed by the kv_store table. Each namespace is
// an independent board.
type Store struct {
	pool      *pgxpool.Pool
	namespace string
}

// NewStore returns a Store over pool. An empty namespace means DefaultNamespace.
func NewStore(pool *pgxpool.Pool, namespace string) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{pool: pool, namespace: namespace}
}

// Namespace returns the board name the store reads and writes.
func (s *Store) Namespace() string {
	return s.namespace
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(context.Background(), `
		SELECT value FROM kv_store WHERE namespace = $1 AND key = $2
	`, s.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (s *Store) Set(key, value string) error {
	_, err := s.pool.Exec(context.Background(), `
		INSERT INTO kv_store (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.namespace, key, value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(key string) error {
	_, err := s.pool.Exec(context.Background(), `
		DELETE FROM kv_store WHERE namespace = $1 AND key = $2
	`, s.namespace, key)
	if err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys stored in the namespace.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.pool.Query(context.Background(), `
		SELECT key FROM kv_store WHERE namespace = $1 ORDER BY key
	`, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
