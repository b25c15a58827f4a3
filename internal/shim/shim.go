// Package shim hosts the three interception entry-point adapters
// (spec.md §6): thin wrappers over the decision engine and dispatch
// state machine, one per exec variant (direct path, search-path lookup,
// file descriptor).
package shim

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/firejail/execfilter/internal/policy/canon"
	"github.com/firejail/execfilter/internal/policy/dispatch"
	"github.com/firejail/execfilter/internal/policy/engine"
	"github.com/firejail/execfilter/internal/policy/pathres"
	"github.com/firejail/execfilter/internal/policy/policyerr"
)

// Shim wires a decision Engine to an Execer, exposing the three
// interception entry points as plain methods.
type Shim struct {
	Engine *engine.Engine
	Execer dispatch.Execer
}

// New returns a Shim ready to service any of the three entry points.
func New(e *engine.Engine, x dispatch.Execer) *Shim {
	return &Shim{Engine: e, Execer: x}
}

// ByPath handles the execve-shaped entry point: target is already a
// path, absolute or relative to the current working directory.
func (s *Shim) ByPath(ctx context.Context, target string, argv, envp []string) error {
	canonical, err := canon.Realpath(target)
	if err != nil {
		return fmt.Errorf("shim.ByPath: %w", err)
	}

	decision := s.Engine.Decide(engine.Call{Target: canonical, Argv: argv})
	return dispatch.Dispatch(ctx, s.Execer, decision, envp)
}

// BySearchPath handles the execvpe-shaped entry point: name is resolved
// against path (the caller's $PATH value; pass pathres.DefaultSearchPath
// if the caller's environment has no PATH entry at all).
//
// When the call is allowed, dispatch execs the path returned by the
// search-path lookup rather than its fully symlink-collapsed form, matching the
// original library's retry-with-original-file behavior for programs
// that branch on their own invocation name (original_source/src/lib.c).
func (s *Shim) BySearchPath(ctx context.Context, name, path string, argv, envp []string) error {
	resolved, err := pathres.Resolve(name, path)
	if err != nil {
		return fmt.Errorf("shim.BySearchPath: %w", err)
	}

	canonical, err := canon.Realpath(resolved)
	if err != nil {
		return fmt.Errorf("shim.BySearchPath: %w", err)
	}

	decision := s.Engine.Decide(engine.Call{Target: canonical, Argv: argv})
	if decision.Allowed != nil {
		unresolved := *decision.Allowed
		unresolved.Target = resolved
		decision.Allowed = &unresolved
	}
	return dispatch.Dispatch(ctx, s.Execer, decision, envp)
}

// ByFD handles the fexecve-shaped entry point: fd names an already-open
// file descriptor, resolved to a path via /proc/self/fd/<fd>. A negative
// descriptor, or one whose /proc/self/fd link cannot be read, fails
// invalid-argument without attempting any exec (spec.md §6, scenario S4).
//
// The allowed half, if any, dispatches against the /proc/self/fd path
// itself rather than the canonical target it resolves to, which is
// exec-by-path's equivalent of fexecve-by-descriptor: it re-executes
// whatever the descriptor currently refers to, not a frozen snapshot of
// its resolved name.
func (s *Shim) ByFD(ctx context.Context, fd int, argv, envp []string) error {
	if fd < 0 {
		return fmt.Errorf("shim.ByFD: %w", policyerr.ErrInvalidArgument)
	}

	fdPath := "/proc/self/fd/" + strconv.Itoa(fd)
	if _, err := os.Readlink(fdPath); err != nil {
		return fmt.Errorf("shim.ByFD: %w", policyerr.ErrInvalidArgument)
	}
	canonical, err := canon.Realpath(fdPath)
	if err != nil {
		return fmt.Errorf("shim.ByFD: %w", policyerr.ErrInvalidArgument)
	}

	decision := s.Engine.Decide(engine.Call{Target: canonical, Argv: argv})
	if decision.Allowed != nil {
		unresolved := *decision.Allowed
		unresolved.Target = fdPath
		decision.Allowed = &unresolved
	}
	return dispatch.Dispatch(ctx, s.Execer, decision, envp)
}

// SelfPath reports the path to the currently running binary, read from
// /proc/self/exe (original_source/src/common.c's
// exechelp_get_self_name). On readlink failure it returns the sentinel
// null-device path rather than an error, exactly as the original does,
// since callers use this only for diagnostics.
func SelfPath() string {
	target, err := os.Readlink("/proc/self/exe")
	if err != nil {
		return "/dev/null"
	}
	return target
}
