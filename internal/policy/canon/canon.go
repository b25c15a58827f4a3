// Package canon implements the path canonicalizer (spec.md §4.A): resolving
// a user-supplied name to an absolute, symlink-free path with cycle
// detection, plus the two-pass realpath public entry point.
package canon

import (
	"errors"
	"fmt"
	"math/bits"
	"os"
	"strings"
	"syscall"

	"github.com/firejail/execfilter/internal/policy/policyerr"
	"golang.org/x/sys/unix"
)

// Mode selects the existence requirement applied while walking path
// components. Exactly one of these must be passed to Canonicalize.
type Mode uint8

const (
	// Existing requires every component to exist.
	Existing Mode = 1 << 0
	// AllButLast allows the final component to be missing.
	AllButLast Mode = 1 << 1
	// Missing imposes no existence requirement on any component.
	Missing Mode = 1 << 2
)

const readLinkCeiling = 4096

type seenKey struct {
	path string
	dev  uint64
	ino  uint64
}

// Canonicalize resolves input to an absolute, normalized path under the
// given mode and NOLINKS setting (nolinks == true means "do not follow
// symbolic links", spec.md §4.A).
func Canonicalize(input string, mode Mode, nolinks bool) (string, error) {
	if bits.OnesCount8(uint8(mode)) != 1 {
		return "", fmt.Errorf("canonicalize: %w: exactly one mode bit required", policyerr.ErrInvalidArgument)
	}
	if input == "" {
		return "", fmt.Errorf("canonicalize: %w: empty path", policyerr.ErrNotFound)
	}

	outComps, remaining, err := rootAndRemainder(input)
	if err != nil {
		return "", err
	}

	seen := make(map[seenKey]bool)

	for remaining != "" {
		comp, rest, more := nextComponent(remaining)
		if !more {
			break
		}
		remaining = rest

		switch comp {
		case ".":
			continue
		case "..":
			if len(outComps) > 0 {
				outComps = outComps[:len(outComps)-1]
			}
			continue
		}

		outComps = append(outComps, comp)
		full := joinRoot(outComps)

		skipStat := nolinks && mode == Missing
		var fi os.FileInfo
		var statErr error
		if !skipStat {
			fi, statErr = os.Lstat(full)
		}

		if statErr != nil {
			switch mode {
			case Existing:
				return "", fmt.Errorf("canonicalize %q: %w", input, translateStatErr(statErr))
			case AllButLast:
				if !isLastComponent(rest) || !os.IsNotExist(statErr) {
					return "", fmt.Errorf("canonicalize %q: %w", input, translateStatErr(statErr))
				}
				continue
			default: // Missing
				continue
			}
		}

		isSymlink := fi != nil && fi.Mode()&os.ModeSymlink != 0

		if isSymlink && nolinks {
			// Leave the literal component in place; a dangling or
			// directory-pointing symlink is indistinguishable from here,
			// and NOLINKS means we never chase it to find out.
			continue
		}

		if isSymlink {
			dev, ino, ok := deviceInode(fi)
			key := seenKey{path: full, dev: dev, ino: ino}
			if ok && seen[key] {
				if mode == Missing {
					continue
				}
				return "", fmt.Errorf("canonicalize %q: %w", input, policyerr.ErrLoop)
			}
			if ok {
				seen[key] = true
			}

			target, rlErr := readLinkSized(full)
			if rlErr != nil {
				if mode == Missing && !errors.Is(rlErr, policyerr.ErrNoMemory) {
					continue
				}
				return "", fmt.Errorf("canonicalize %q: %w", input, rlErr)
			}

			if strings.HasPrefix(target, "/") {
				outComps = outComps[:0]
			} else if len(outComps) > 0 {
				outComps = outComps[:len(outComps)-1]
			}
			remaining = target + rest
			continue
		}

		if fi != nil && !fi.IsDir() && !isLastComponent(rest) && mode != Missing {
			return "", fmt.Errorf("canonicalize %q: %w", input, policyerr.ErrNotADirectory)
		}
	}

	return joinRoot(outComps), nil
}

// Realpath resolves name to an absolute, symlink-free path using the
// two-pass form: a NOLINKS pass to normalize components that may not yet
// exist, followed by a full pass that collapses symlinks in whatever
// portion already exists (spec.md §4.A).
func Realpath(name string) (string, error) {
	lexical, err := Canonicalize(name, Missing, true)
	if err != nil {
		return "", err
	}
	return Canonicalize(lexical, Missing, false)
}

func rootAndRemainder(input string) (comps []string, remaining string, err error) {
	switch {
	case strings.HasPrefix(input, "~/"):
		home := os.Getenv("HOME")
		if home == "" {
			return nil, "", fmt.Errorf("canonicalize %q: %w: HOME is not set", input, policyerr.ErrNotFound)
		}
		return splitComponents(home), input[1:], nil
	case strings.HasPrefix(input, "/"):
		return nil, input, nil
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("canonicalize %q: getwd: %w", input, err)
		}
		return splitComponents(cwd), input, nil
	}
}

func splitComponents(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinRoot(comps []string) string {
	if len(comps) == 0 {
		return "/"
	}
	return "/" + strings.Join(comps, "/")
}

// nextComponent strips leading separators from remaining and returns the
// next component and what's left after it, including any separator that
// preceded the following component. more is false once nothing remains.
func nextComponent(remaining string) (comp, rest string, more bool) {
	i := 0
	for i < len(remaining) && remaining[i] == '/' {
		i++
	}
	remaining = remaining[i:]
	if remaining == "" {
		return "", "", false
	}
	j := 0
	for j < len(remaining) && remaining[j] != '/' {
		j++
	}
	return remaining[:j], remaining[j:], true
}

func isLastComponent(rest string) bool {
	return strings.TrimLeft(rest, "/") == ""
}

func translateStatErr(err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w", policyerr.ErrNotFound)
	case os.IsPermission(err):
		return fmt.Errorf("%w", policyerr.ErrPermissionDenied)
	default:
		return err
	}
}

func deviceInode(fi os.FileInfo) (dev, ino uint64, ok bool) {
	st, okCast := fi.Sys().(*syscall.Stat_t)
	if !okCast {
		return 0, 0, false
	}
	return uint64(st.Dev), uint64(st.Ino), true
}

// readLinkSized reads a symlink target, growing the read buffer from a
// small initial size up to a 4096-byte ceiling, failing with ErrNoMemory
// if even the ceiling-sized buffer is truncated (spec.md §4.A "Read-link
// buffer sizing").
func readLinkSized(path string) (string, error) {
	for size := 128; ; size *= 2 {
		buf := make([]byte, size)
		n, err := unix.Readlink(path, buf)
		if err != nil {
			return "", fmt.Errorf("readlink %q: %w", path, err)
		}
		if n < size {
			return string(buf[:n]), nil
		}
		if size >= readLinkCeiling {
			return "", fmt.Errorf("readlink %q: %w", path, policyerr.ErrNoMemory)
		}
	}
}
