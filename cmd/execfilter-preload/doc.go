// Command execfilter-preload is a shared library built with
// `go build -buildmode=c-shared`, meant to be loaded via LD_PRELOAD into
// a sandboxed process. It exports C-callable execve, execvpe, and
// fexecve symbols that shadow libc's, running every call through the
// decision engine before falling through to the real libc
// implementation (resolved once via dlsym(RTLD_NEXT, ...), mirroring
// original_source/src/lib.c's interception strategy).
//
// Build: CGO_ENABLED=1 go build -buildmode=c-shared -o execfilter-preload.so ./cmd/execfilter-preload
// Use:   LD_PRELOAD=./execfilter-preload.so some-sandboxed-program
package main
