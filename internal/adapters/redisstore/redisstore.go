// Package redisstore provides a Redis-backed ports.Storage for session
// persistence across process restarts.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stardyn/authkit/internal/ports"
)

const opTimeout = 5 * time.Second

// Store is a Redis-based key-value store. Keys are namespaced with a
// prefix so Clear only touches session data.
type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.Storage = (*Store)(nil)

// New creates a Redis-backed store with the default "authkit:" prefix.
func New(client redis.UniversalClient) *Store {
	return NewWithPrefix(client, "authkit:")
}

// NewWithPrefix creates a Redis-backed store with a custom key prefix.
func NewWithPrefix(client redis.UniversalClient, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
	}
}

// Get returns the value for key, and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	ctx, cancel := s.opContext()
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores the value for key.
func (s *Store) Set(key, value string) error {
	if key == "" {
		return errors.New("storage key cannot be empty")
	}

	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes the value for key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Clear removes every key under the store's prefix.
func (s *Store) Clear() error {
	ctx, cancel := s.opContext()
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// The Storage port is synchronous; bound each Redis call so a dead server
// cannot wedge session teardown.
func (s *Store) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
