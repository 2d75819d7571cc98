package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/antiphoton/postflop-solver/storage"
	"github.com/stretchr/testify/require"
)

func testProvider(t *testing.T, provider storage.Provider) {
	t.Helper()
	ctx := context.Background()

	_, err := provider.Get(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrSnapshotNotFound)

	require.NoError(t, provider.Put(ctx, "snap", []byte{1, 2, 3}))
	data, err := provider.Get(ctx, "snap")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)

	// Overwrite.
	require.NoError(t, provider.Put(ctx, "snap", []byte{4}))
	data, err = provider.Get(ctx, "snap")
	require.NoError(t, err)
	require.Equal(t, []byte{4}, data)

	require.NoError(t, provider.Delete(ctx, "snap"))
	_, err = provider.Get(ctx, "snap")
	require.ErrorIs(t, err, storage.ErrSnapshotNotFound)
	require.ErrorIs(t, provider.Delete(ctx, "snap"), storage.ErrSnapshotNotFound)
}

func TestMemStore(t *testing.T) {
	testProvider(t, storage.NewMemStore())
}

func TestMemStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	data := []byte{1, 2, 3}
	require.NoError(t, store.Put(ctx, "snap", data))
	data[0] = 9

	got, err := store.Get(ctx, "snap")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)

	// Mutating the returned slice must not affect the store.
	got[0] = 9
	again, err := store.Get(ctx, "snap")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, again)
}

func TestDirectoryStore(t *testing.T) {
	testProvider(t, storage.NewDirectoryStore(t.TempDir()))
}

func TestDirectoryStoreFileLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := storage.NewDirectoryStore(dir)
	require.NoError(t, store.Put(ctx, "snap", []byte{1}))

	data, err := os.ReadFile(filepath.Join(dir, "snap"))
	require.NoError(t, err)
	require.Equal(t, []byte{1}, data)
}

func TestDirectoryStoreRejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	store := storage.NewDirectoryStore(t.TempDir())
	for _, id := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		t.Run(id, func(t *testing.T) {
			require.Error(t, store.Put(ctx, id, []byte{1}))
			_, err := store.Get(ctx, id)
			require.Error(t, err)
			require.Error(t, store.Delete(ctx, id))
		})
	}
}
