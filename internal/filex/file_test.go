package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "a", "b", "c")

	got, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, got)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	// idempotent
	_, err = EnsureDir(dir)
	require.NoError(t, err)
}

func TestWriteAtomic_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")

	require.NoError(t, WriteAtomic(path, []byte("hello")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)

	// overwrite
	require.NoError(t, WriteAtomic(path, []byte("world")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("world"), data)

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")

	require.False(t, Exists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	require.True(t, Exists(path))
	require.False(t, Exists(dir), "directories are not regular files")
}
