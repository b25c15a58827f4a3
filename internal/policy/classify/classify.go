// Package classify implements the per-argument classifier (spec.md
// §4.E): deciding whether one argv entry names a restricted file.
package classify

import (
	"errors"
	"strings"
	"syscall"

	"github.com/firejail/execfilter/internal/policy"
	"github.com/firejail/execfilter/internal/policy/canon"
	"github.com/firejail/execfilter/internal/policy/listpolicy"
	"github.com/firejail/execfilter/internal/policy/policyerr"
)

// Argument classifies one argv entry (index >= 1) against the
// managed-files list. managedFiles is the parsed policy-list contents
// for the managed-files path (typically obtained via listcache).
func Argument(arg string, managedFiles []string) policy.Tag {
	if !isFileLike(arg) {
		return policy.Unspecified
	}

	canonical, err := canon.Realpath(arg)
	if err != nil {
		// canon.Realpath only fails on malformed input or a read-link
		// ceiling overflow; a path that merely doesn't exist yet still
		// canonicalizes successfully under its MISSING-mode walk.
		canonical = arg
	}

	if listpolicy.Contains(managedFiles, canonical) {
		return policy.SandboxManaged
	}
	return policy.Unspecified
}

// isFileLike reports whether arg should be treated as naming a
// filesystem path: it contains a separator, or canonicalizing its literal
// form in EXISTING mode (following symlinks) succeeds, or the failure
// itself implies the path exists (permission denied, a symlink loop, or
// an EOVERFLOW stat result) — spec.md §4.E.
func isFileLike(arg string) bool {
	if strings.Contains(arg, "/") {
		return true
	}

	_, err := canon.Canonicalize(arg, canon.Existing, false)
	if err == nil {
		return true
	}
	return errors.Is(err, policyerr.ErrPermissionDenied) ||
		errors.Is(err, policyerr.ErrLoop) ||
		errors.Is(err, syscall.EOVERFLOW)
}
