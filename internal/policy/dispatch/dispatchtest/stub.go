// Package dispatchtest provides a call-recording dispatch.Execer double
// for end-to-end tests, standing in for the real image-replacement
// syscall (spec.md §8: "a stub image-replacement shim that records calls
// instead of executing").
package dispatchtest

import (
	"fmt"
	"sync"
)

// Call records one attempted image replacement.
type Call struct {
	Path string
	Argv []string
	Envp []string
}

// Stub records every Exec call it receives and returns Err. The zero
// value returns nil from every call; set Err (for example to DefaultErr)
// to make every recorded exec fail.
type Stub struct {
	mu    sync.Mutex
	calls []Call
	// Err is returned from every Exec call. Leave nil only if the test
	// wants to assert dispatch treats a successful allowed exec as
	// terminal (dispatch.Dispatch returns nil in that case too).
	Err error
}

// Exec implements dispatch.Execer.
func (s *Stub) Exec(path string, argv []string, envp []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Path: path, Argv: append([]string{}, argv...), Envp: append([]string{}, envp...)})
	return s.Err
}

// Calls returns every recorded call, in invocation order.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// DefaultErr is a generic exec failure for a stub that never actually
// replaces the process image.
var DefaultErr = fmt.Errorf("dispatchtest: stub exec never replaces the process image")
