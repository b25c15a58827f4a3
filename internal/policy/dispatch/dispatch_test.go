package dispatch

import (
	"context"
	"testing"

	"github.com/firejail/execfilter/internal/policy/dispatch/dispatchtest"
	"github.com/firejail/execfilter/internal/policy/engine"
	"github.com/firejail/execfilter/internal/policy/policyerr"
	"github.com/stretchr/testify/require"
)

func TestDispatchAllowedOnlyRecordsOneCallNoSentinel(t *testing.T) {
	stub := &dispatchtest.Stub{}
	decision := engine.Decision{Allowed: &engine.Call{Target: "/usr/bin/firefox", Argv: []string{"firefox"}}}

	err := Dispatch(context.Background(), stub, decision, []string{"HOME=/home/u"})
	require.NoError(t, err)

	calls := stub.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "/usr/bin/firefox", calls[0].Path)
}

func TestDispatchForbiddenOnlyNotifiesThenReturnsPermissionDenied(t *testing.T) {
	stub := &dispatchtest.Stub{Err: dispatchtest.DefaultErr}
	decision := engine.Decision{Forbidden: &engine.Call{Target: "/usr/bin/vlc", Argv: []string{"vlc", "/secret/song.mp3"}}}

	err := Dispatch(context.Background(), stub, decision, nil)
	require.ErrorIs(t, err, policyerr.ErrPermissionDenied)

	calls := stub.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "/firejail/denied//usr/bin/vlc", calls[0].Path)
	require.Equal(t, []string{"vlc", "/secret/song.mp3"}, calls[0].Argv)
}

func TestDispatchNotifyOrderingPrecedesAllowedExec(t *testing.T) {
	stub := &dispatchtest.Stub{}
	// Engine.Decide never fills both halves (conservative widening sends
	// the whole call one way or the other), but Dispatch accepts a
	// decision that carries both, and this checks its ordering directly:
	// the notify exec is recorded before the allowed attempt.
	decision := engine.Decision{
		Forbidden: &engine.Call{Target: "/usr/bin/vlc", Argv: []string{"vlc", "bad"}},
		Allowed:   &engine.Call{Target: "/usr/bin/firefox", Argv: []string{"firefox"}},
	}
	err := Dispatch(context.Background(), stub, decision, nil)
	require.NoError(t, err)
	calls := stub.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, "/firejail/denied//usr/bin/vlc", calls[0].Path)
	require.Equal(t, "/usr/bin/firefox", calls[1].Path)
}

func TestDispatchPropagatesAllowedExecFailure(t *testing.T) {
	stub := &dispatchtest.Stub{Err: dispatchtest.DefaultErr}
	decision := engine.Decision{Allowed: &engine.Call{Target: "/usr/bin/firefox", Argv: []string{"firefox"}}}

	err := Dispatch(context.Background(), stub, decision, nil)
	require.ErrorIs(t, err, policyerr.ErrDispatchFailed)
}
