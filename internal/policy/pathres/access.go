package pathres

import "golang.org/x/sys/unix"

// unixAccessExecutable reports whether candidate is executable by the
// calling process, using the same access(2) check the original search
// performs before accepting a candidate.
func unixAccessExecutable(candidate string) error {
	return unix.Access(candidate, unix.X_OK)
}
