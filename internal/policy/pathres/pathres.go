// Package pathres implements $PATH search-path resolution (spec.md §4.B):
// turning a bare command name into the first matching executable found by
// walking a colon-separated path list, honoring the empty-entry-means-cwd
// quirks and the specific set of non-fatal lookup errors.
package pathres

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/firejail/execfilter/internal/policy/canon"
	"github.com/firejail/execfilter/internal/policy/policyerr"
)

// DefaultSearchPath is used by callers when the PATH environment variable
// is entirely unset (as opposed to set to the empty string, which per
// shell convention means "current directory only" and is passed through
// to Resolve verbatim).
const DefaultSearchPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// Resolve searches path (a colon-separated list, using the same
// conventions as the shell: an empty entry, including one implied by a
// leading, trailing, or doubled colon, means the current directory) for
// name and returns the first candidate that is not a directory and is
// executable by the caller. A hit through an empty entry is returned
// joined to the absolute current working directory.
//
// A permission failure (EACCES) is remembered but does not stop the
// search; if nothing better is found, the first such candidate is
// returned with ErrPermissionDenied. ENOENT, ENAMETOOLONG, ENOTDIR,
// ELOOP, EROFS, ETXTBSY, and a directory in place of the file are
// silently skipped in favor of the next entry.
func Resolve(name, path string) (string, error) {
	if name == "" {
		return "", policyerr.ErrInvalidArgument
	}
	if strings.Contains(name, "/") {
		return canon.Realpath(name)
	}

	var deniedCandidate string
	sawDenied := false

	for _, entry := range splitPathList(path) {
		dir := entry
		if dir == "" {
			dir = "."
			if cwd, err := os.Getwd(); err == nil {
				dir = cwd
			}
		}
		candidate := filepath.Join(dir, name)

		ok, err := tryExecutable(candidate)
		if ok {
			return candidate, nil
		}
		if err == nil {
			continue
		}
		if errors.Is(err, syscall.EACCES) {
			if !sawDenied {
				deniedCandidate = candidate
				sawDenied = true
			}
			continue
		}
		if isSkippable(err) {
			continue
		}
		// Any other error is treated the same as "not found here";
		// the original library is equally permissive.
	}

	if sawDenied {
		return deniedCandidate, policyerr.ErrPermissionDenied
	}
	return "", policyerr.ErrNotFound
}

// splitPathList splits a colon-separated $PATH value into entries,
// preserving empty entries (leading ":", trailing ":", "::") since each
// denotes the current directory per shell convention.
func splitPathList(path string) []string {
	if path == "" {
		return []string{""}
	}
	return strings.Split(path, ":")
}

func tryExecutable(candidate string) (ok bool, err error) {
	fi, statErr := os.Stat(candidate)
	if statErr != nil {
		if perr, isPerr := statErr.(*os.PathError); isPerr {
			return false, perr.Err
		}
		return false, statErr
	}
	if fi.IsDir() {
		return false, syscall.EISDIR
	}
	if err := unixAccessExecutable(candidate); err != nil {
		return false, err
	}
	return true, nil
}

func isSkippable(err error) bool {
	switch {
	case errors.Is(err, syscall.ENOENT),
		errors.Is(err, syscall.ENAMETOOLONG),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.ELOOP),
		errors.Is(err, syscall.EROFS),
		errors.Is(err, syscall.ETXTBSY),
		errors.Is(err, syscall.EISDIR):
		return true
	default:
		return false
	}
}
