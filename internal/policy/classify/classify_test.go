package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/firejail/execfilter/internal/policy"
	"github.com/stretchr/testify/require"
)

func TestArgumentManagedFileIsTaggedSandboxManaged(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "file"), []byte("x"), 0o644))

	managed := []string{dir}
	tag := Argument(filepath.Join(dir, "sub", "file"), managed)
	require.Equal(t, policy.SandboxManaged, tag)
}

func TestArgumentOutsideManagedFilesIsUnspecified(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), []byte("x"), 0o644))

	tag := Argument(filepath.Join(dir, "file"), []string{"/tmp/other"})
	require.Equal(t, policy.Unspecified, tag)
}

func TestArgumentNonFileLikeIsUnspecified(t *testing.T) {
	tag := Argument("--verbose", nil)
	require.Equal(t, policy.Unspecified, tag)
}

func TestArgumentWithSeparatorIsAlwaysFileLikeEvenWhenMissing(t *testing.T) {
	tag := Argument("/no/such/path/at/all", []string{"/no/such"})
	require.Equal(t, policy.SandboxManaged, tag)
}

func TestArgumentManagedFilesScenarioFromSpec(t *testing.T) {
	managed := []string{"/tmp/a", "/tmp/b"}
	require.Equal(t, policy.SandboxManaged, Argument("/tmp/b/sub/file", managed))
	require.Equal(t, policy.Unspecified, Argument("/tmp/c", managed))
}
