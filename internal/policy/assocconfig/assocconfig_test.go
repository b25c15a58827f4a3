package assocconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `
groups:
  - main_key: /usr/bin/mytool
    members:
      - /usr/bin/mytool
      - /usr/bin/mytool-helper
    patterns:
      - /usr/lib/mytool/*
  - main_key: /usr/bin/other
    members:
      - /usr/bin/other
`

func TestParseCompilesGroupsAndPatterns(t *testing.T) {
	groups, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, groups, 2)

	require.Equal(t, "/usr/bin/mytool", groups[0].MainKey)
	require.Len(t, groups[0].Patterns, 1)
	require.True(t, groups[0].Patterns[0].Match("/usr/lib/mytool/plugin"))
	require.False(t, groups[0].Patterns[0].Match("/usr/lib/other/plugin"))
}

func TestParseRejectsGroupWithoutMainKey(t *testing.T) {
	_, err := Parse([]byte("groups:\n  - members: [/usr/bin/x]\n"))
	require.Error(t, err)
}

func TestParseRejectsInvalidPattern(t *testing.T) {
	_, err := Parse([]byte("groups:\n  - main_key: /x\n    patterns: [\"[\"]\n"))
	require.Error(t, err)
}

func TestLoadReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	groups, err := Load(path)
	require.NoError(t, err)
	require.Len(t, groups, 2)
}

func TestValidateSurfacesParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("groups:\n  - members: [x]\n"), 0o644))

	require.Error(t, Validate(path))
}
