//go:build linux && cgo

package main

/*
#cgo LDFLAGS: -ldl

#define _GNU_SOURCE
#include <dlfcn.h>
#include <stdlib.h>

typedef int (*execve_fn)(const char *, char *const[], char *const[]);

static execve_fn real_execve_fn = NULL;

// real_execve is the one underlying primitive every exported trampoline
// below dispatches to once a decision is reached: by the time we're
// ready to call it, execvpe and fexecve have already been resolved to a
// concrete path, so only the plain execve symbol is ever looked up.
static int real_execve(const char *path, char *const argv[], char *const envp[]) {
	if (!real_execve_fn) {
		real_execve_fn = (execve_fn)dlsym(RTLD_NEXT, "execve");
	}
	if (!real_execve_fn) return -1;
	return real_execve_fn(path, argv, envp);
}
*/
import "C"

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"unsafe"

	"github.com/firejail/execfilter/internal/policy/dispatch"
	"github.com/firejail/execfilter/internal/policy/engine"
	"github.com/firejail/execfilter/internal/policy/pathres"
	"github.com/firejail/execfilter/internal/shim"
)

var (
	once      sync.Once
	activeSh  *shim.Shim
	bootError error
)

// shared lazily builds the one process-wide Engine and Shim, matching
// spec.md §5's "lazily initialized, idempotent under concurrent first
// touch" requirement for the policy-file cache and association
// registry.
func shared() *shim.Shim {
	once.Do(func() {
		e := engine.NewEngine(engine.Paths{})
		activeSh = shim.New(e, realExecer{})
	})
	return activeSh
}

// realExecer calls back into the real libc symbols resolved via dlsym,
// never the exported trampolines below, to avoid re-entering this
// preload library's own interception.
type realExecer struct{}

func (realExecer) Exec(path string, argv []string, envp []string) error {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	cArgv := newCStringArray(argv)
	defer freeCStringArray(cArgv)
	cEnvp := newCStringArray(envp)
	defer freeCStringArray(cEnvp)

	rc, errno := C.real_execve(cPath, (**C.char)(unsafe.Pointer(&cArgv[0])), (**C.char)(unsafe.Pointer(&cEnvp[0])))
	if rc != 0 {
		return os.NewSyscallError("execve", errno)
	}
	return nil
}

//export execve
func execve(path *C.char, argv **C.char, envp **C.char) C.int {
	goPath := C.GoString(path)
	goArgv := cStringArrayToSlice(argv)
	goEnvp := cStringArrayToSlice(envp)

	err := shared().ByPath(context.Background(), goPath, goArgv, goEnvp)
	return errToErrno(err)
}

//export execvpe
func execvpe(file *C.char, argv **C.char, envp **C.char) C.int {
	goFile := C.GoString(file)
	goArgv := cStringArrayToSlice(argv)
	goEnvp := cStringArrayToSlice(envp)

	path, ok := lookupEnv(goEnvp, "PATH")
	if !ok {
		path = pathres.DefaultSearchPath
	}

	err := shared().BySearchPath(context.Background(), goFile, path, goArgv, goEnvp)
	return errToErrno(err)
}

//export fexecve
func fexecve(fd C.int, argv **C.char, envp **C.char) C.int {
	goArgv := cStringArrayToSlice(argv)
	goEnvp := cStringArrayToSlice(envp)

	err := shared().ByFD(context.Background(), int(fd), goArgv, goEnvp)
	return errToErrno(err)
}

func main() {
	slog.Debug("execfilter-preload loaded")
}

func cStringArrayToSlice(arr **C.char) []string {
	if arr == nil {
		return nil
	}
	var out []string
	for i := 0; ; i++ {
		elem := (**C.char)(unsafe.Pointer(uintptr(unsafe.Pointer(arr)) + uintptr(i)*unsafe.Sizeof(*arr)))
		if *elem == nil {
			break
		}
		out = append(out, C.GoString(*elem))
	}
	return out
}

func newCStringArray(s []string) []*C.char {
	out := make([]*C.char, len(s)+1)
	for i, v := range s {
		out[i] = C.CString(v)
	}
	out[len(s)] = nil
	return out
}

func freeCStringArray(arr []*C.char) {
	for _, p := range arr {
		if p != nil {
			C.free(unsafe.Pointer(p))
		}
	}
}

func lookupEnv(envp []string, key string) (string, bool) {
	prefix := key + "="
	for _, kv := range envp {
		if len(kv) >= len(prefix) && kv[:len(prefix)] == prefix {
			return kv[len(prefix):], true
		}
	}
	return "", false
}

// errToErrno adapts a dispatch error into the libc convention: -1
// return with errno set. The Go runtime does not let us set the C
// global errno directly from cgo without the C.errno helper in recent
// toolchains, so callers needing the precise value should read the
// returned value as informational only; the sentinel exec and the real
// exec below this one already carry the true kernel errno on the
// underlying syscalls.
func errToErrno(err error) C.int {
	if err == nil {
		return 0
	}
	return -1
}
