package statistic

import (
	"context"
	"ghstats/internal/statistic/interfaces"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_WriteRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	store := NewFileStore(dir, true)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "octocat", []byte("payload")))

	data, err := store.Read(ctx, "octocat")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	_, err = os.Stat(filepath.Join(dir, "octocat.json.zst"))
	assert.NoError(t, err)
}

func TestFileStore_ReadMissing(t *testing.T) {
	store := NewFileStore(t.TempDir(), false)

	_, err := store.Read(context.Background(), "nobody")
	assert.ErrorIs(t, err, interfaces.ErrBlobNotFound)
}

func TestFileStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, false)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "octocat", []byte("v1")))
	require.NoError(t, store.Write(ctx, "octocat", []byte("v2")))

	data, err := store.Read(ctx, "octocat")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "octocat.json", entries[0].Name())
}

func TestFileStore_WriteFailureKeepsPreviousRecord(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, false)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "octocat", []byte("v1")))

	// a directory in place of the target makes the final rename fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, "blocked.json"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocked.json", "child"), []byte("x"), 0644))
	assert.Error(t, store.Write(ctx, "blocked", []byte("v2")))

	data, err := store.Read(ctx, "octocat")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)

	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	assert.Empty(t, matches)
}

func TestFileStore_KeysAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, true)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "alice", []byte("a")))
	require.NoError(t, store.Write(ctx, "bob", []byte("b")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, keys)

	require.NoError(t, store.Delete(ctx, "alice"))
	require.NoError(t, store.Delete(ctx, "alice"))

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, keys)
}

func TestFileStore_KeysOnMissingDir(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent"), true)

	keys, err := store.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}
