package listpolicy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDropsEmptyLines(t *testing.T) {
	entries := Parse([]byte("/tmp/a\n\n/tmp/b\n"))
	require.Equal(t, []string{"/tmp/a", "/tmp/b"}, entries)
}

func TestParseNoTrailingNewline(t *testing.T) {
	entries := Parse([]byte("/a\n/b"))
	require.Equal(t, []string{"/a", "/b"}, entries)
}

func TestContainsPrefixOnSeparator(t *testing.T) {
	entries := []string{"/a/b", "/a"}

	require.True(t, Contains(entries, "/a/b"))
	require.True(t, Contains(entries, "/a"))
	require.True(t, Contains(entries, "/a/b/c"))
	require.False(t, Contains(entries, "/a/bc"))
	require.False(t, Contains(entries, "/ab"))
}

func TestContainsMatchesEntrySubtree(t *testing.T) {
	entries := []string{"/tmp/a", "/tmp/b"}

	require.True(t, Contains(entries, "/tmp/b/sub/file"))
	require.False(t, Contains(entries, "/tmp/c"))
}

func TestContainsEmptyEntryNeverMatches(t *testing.T) {
	entries := []string{""}
	require.False(t, Contains(entries, "/anything"))
	require.False(t, Contains(entries, ""))
}
