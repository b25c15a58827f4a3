package dispatch

import "golang.org/x/sys/unix"

// Exec replaces the calling process's image using unix.Exec, the same
// primitive the teacher's rlimit-exec and shell-shim commands use for
// image replacement on Linux.
func (UnixExecer) Exec(path string, argv []string, envp []string) error {
	return unix.Exec(path, argv, envp)
}
