// Package listpolicy implements the policy-list parsing and
// prefix-on-separator membership test shared by the argument classifier
// and the decision engine (spec.md §3).
package listpolicy

import "strings"

const separator = '/'

// Parse splits raw policy-file contents into an ordered list of entries,
// one per non-empty line. Empty lines are dropped rather than treated as
// the universal-match empty prefix (spec.md §9's recommended fix for the
// "empty line matches everything" footgun).
func Parse(contents []byte) []string {
	lines := strings.Split(string(contents), "\n")
	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	return entries
}

// Contains reports whether candidate is matched by any entry under the
// prefix-on-separator rule: an entry E matches a candidate C if C begins
// with E and the next byte of C (if any) is the separator.
func Contains(entries []string, candidate string) bool {
	for _, entry := range entries {
		if hasPrefixOnSeparator(candidate, entry) {
			return true
		}
	}
	return false
}

func hasPrefixOnSeparator(candidate, entry string) bool {
	if entry == "" || candidate == "" {
		return false
	}
	if !strings.HasPrefix(candidate, entry) {
		return false
	}
	if len(candidate) == len(entry) {
		return true
	}
	return candidate[len(entry)] == separator
}
