package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	val, err := s.Get(ctx, "ota", "gh_token", "fallback")
	require.NoError(t, err)
	require.Equal(t, "fallback", val)

	require.NoError(t, s.Put(ctx, "ota", "gh_token", "ghp_first"))
	require.NoError(t, s.Put(ctx, "ota", "gh_token", "ghp_second"))
	require.NoError(t, s.Put(ctx, "other", "gh_token", "elsewhere"))

	val, err = s.Get(ctx, "ota", "gh_token", "fallback")
	require.NoError(t, err)
	require.Equal(t, "ghp_second", val)

	val, err = s.Get(ctx, "other", "gh_token", "")
	require.NoError(t, err)
	require.Equal(t, "elsewhere", val)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ota.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	testStore(t, s)
	require.NoError(t, s.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	val, err := reopened.Get(context.Background(), "ota", "gh_token", "")
	require.NoError(t, err)
	require.Equal(t, "ghp_second", val)
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := New(&config.Config{Store: config.StoreConfig{Driver: "etcd"}})
	require.Error(t, err)

	s, err := New(&config.Config{Store: config.StoreConfig{Driver: "memory"}})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, s)
}
