// Package dispatch implements the image-replacement state machine
// (spec.md §4.G): a best-effort sentinel notification for the forbidden
// half of a decision, strictly before the real exec of the allowed
// half, with permission-denied when nothing is allowed.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firejail/execfilter/internal/policy"
	"github.com/firejail/execfilter/internal/policy/engine"
	"github.com/firejail/execfilter/internal/policy/policyerr"
)

// Execer replaces the calling process's image, in the manner of
// execve(2): on success it never returns to the caller; on failure it
// returns the error the kernel reported. Production code uses unix.Exec;
// tests substitute dispatchtest.Stub to record calls instead.
type Execer interface {
	Exec(path string, argv []string, envp []string) error
}

// Dispatch runs the two-attempt state machine of spec.md §4.G against
// one decision. If it returns nil, the allowed half's exec replaced the
// process image and this return value is never observed by a real
// caller; callers in tests treat a nil return as "the allowed exec was
// attempted".
func Dispatch(ctx context.Context, execer Execer, decision engine.Decision, envp []string) error {
	if decision.Forbidden != nil {
		sentinel := policy.SentinelPrefix + decision.Forbidden.Target
		if err := execer.Exec(sentinel, decision.Forbidden.Argv, envp); err != nil {
			slog.DebugContext(ctx, "sentinel notify exec returned (expected)", "sentinel", sentinel, "error", err)
		}
	}

	if decision.Allowed == nil {
		return policyerr.ErrPermissionDenied
	}

	if err := execer.Exec(decision.Allowed.Target, decision.Allowed.Argv, envp); err != nil {
		return fmt.Errorf("%w: %v", policyerr.ErrDispatchFailed, err)
	}
	return nil
}

// UnixExecer is the production Execer, replacing the process image via
// golang.org/x/sys/unix.Exec on Linux.
type UnixExecer struct{}

var _ Execer = UnixExecer{}
