package pgstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestPool connects to the database named by TEST_DATABASE_URL and
// applies the schema. Tests are skipped when no database is available.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres storage tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skip("postgres not available for testing")
	}

	_, err = pool.Exec(ctx, Schema)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM auth_storage WHERE prefix LIKE 'authkit-test%'`)
		pool.Close()
	})
	return pool
}

func TestStore_SetGetDelete(t *testing.T) {
	store := New(setupTestPool(t), "authkit-test:")

	require.NoError(t, store.Set("auth_token", "t1"))

	val, ok := store.Get("auth_token")
	require.True(t, ok)
	assert.Equal(t, "t1", val)

	// Upsert replaces in place.
	require.NoError(t, store.Set("auth_token", "t2"))
	val, _ = store.Get("auth_token")
	assert.Equal(t, "t2", val)

	require.NoError(t, store.Delete("auth_token"))
	_, ok = store.Get("auth_token")
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete("auth_token"))
}

func TestStore_ClearIsScopedToPrefix(t *testing.T) {
	pool := setupTestPool(t)
	store := New(pool, "authkit-test:a:")
	other := New(pool, "authkit-test:b:")

	require.NoError(t, store.Set("auth_token", "t1"))
	require.NoError(t, other.Set("auth_token", "t2"))

	require.NoError(t, store.Clear())

	_, ok := store.Get("auth_token")
	assert.False(t, ok)

	val, ok := other.Get("auth_token")
	require.True(t, ok)
	assert.Equal(t, "t2", val)
}

func TestStore_SetEmptyKey(t *testing.T) {
	store := New(setupTestPool(t), "authkit-test:")
	assert.Error(t, store.Set("", "v"))
}
