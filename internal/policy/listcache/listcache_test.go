package listcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetLoadsAndReloadsOnMtimeChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list")
	require.NoError(t, os.WriteFile(path, []byte("/a\n/b\n"), 0o644))

	c := New()
	entries, err := c.Get(path)
	require.NoError(t, err)
	require.Equal(t, []string{"/a", "/b"}, entries)

	later := time.Now().Add(time.Second)
	require.NoError(t, os.WriteFile(path, []byte("/c\n"), 0o644))
	require.NoError(t, os.Chtimes(path, later, later))

	entries, err = c.Get(path)
	require.NoError(t, err)
	require.Equal(t, []string{"/c"}, entries)
}

func TestGetSkipsReloadWhenMtimeUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list")
	require.NoError(t, os.WriteFile(path, []byte("/a\n"), 0o644))

	c := New()
	first, err := c.Get(path)
	require.NoError(t, err)

	// Rewrite with different contents but leave mtime untouched by
	// restoring it explicitly; the cache must keep serving "first".
	fi, err := os.Stat(path)
	require.NoError(t, err)
	mtime := fi.ModTime()
	require.NoError(t, os.WriteFile(path, []byte("/a\n/b\n"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	second, err := c.Get(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGetKeepsStaleEntriesWhenStatFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list")
	require.NoError(t, os.WriteFile(path, []byte("/a\n/b\n"), 0o644))

	c := New()
	first, err := c.Get(path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	second, err := c.Get(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGetFailsWithNoPriorCacheAndMissingFile(t *testing.T) {
	c := New()
	_, err := c.Get("/no/such/policy/list")
	require.Error(t, err)
}

func TestInvalidateForcesReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list")
	require.NoError(t, os.WriteFile(path, []byte("/a\n"), 0o644))

	c := New()
	_, err := c.Get(path)
	require.NoError(t, err)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	mtime := fi.ModTime()
	require.NoError(t, os.WriteFile(path, []byte("/b\n"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	c.Invalidate(path)
	entries, err := c.Get(path)
	require.NoError(t, err)
	require.Equal(t, []string{"/b"}, entries)
}
