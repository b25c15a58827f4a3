package pathres

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/firejail/execfilter/internal/policy/policyerr"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755))
	return p
}

func TestResolveFindsFirstMatchInOrder(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	writeExecutable(t, dir2, "tool")
	want := writeExecutable(t, dir1, "tool")

	got, err := Resolve("tool", dir1+":"+dir2)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestResolveSkipsNonExecutableEntriesAndUsesLaterOne(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir1, "tool"), []byte("x"), 0o644))
	want := writeExecutable(t, dir2, "tool")

	got, err := Resolve("tool", dir1+":"+dir2)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestResolveEmptyEntryMeansCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	want := writeExecutable(t, dir, "tool")
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })

	got, err := Resolve("tool", ":/nonexistent")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestResolveNotFoundAcrossEntirePath(t *testing.T) {
	dir := t.TempDir()
	_, err := Resolve("missing-tool", dir+":"+dir)
	require.ErrorIs(t, err, policyerr.ErrNotFound)
}

func TestResolveSurfacesPermissionDeniedWhenNothingMatches(t *testing.T) {
	dir1 := t.TempDir()
	denied := filepath.Join(dir1, "tool")
	require.NoError(t, os.WriteFile(denied, []byte("x"), 0o644))
	require.NoError(t, os.Chmod(denied, 0o000))
	t.Cleanup(func() { _ = os.Chmod(denied, 0o644) })

	_, err := Resolve("tool", dir1)
	require.ErrorIs(t, err, policyerr.ErrPermissionDenied)
}

func TestResolveRejectsEmptyName(t *testing.T) {
	_, err := Resolve("", "/usr/bin")
	require.ErrorIs(t, err, policyerr.ErrInvalidArgument)
}

func TestResolveWithSlashBypassesSearchPath(t *testing.T) {
	dir := t.TempDir()
	want := writeExecutable(t, dir, "tool")

	got, err := Resolve(want, "/should/not/matter")
	require.NoError(t, err)
	require.Equal(t, want, got)
}
