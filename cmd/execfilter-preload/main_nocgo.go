//go:build !(linux && cgo)

// Stub for platforms or cross-compilations without cgo. The real
// implementation requires cgo for dlsym-based libc interception and
// only targets Linux, where the dynamic-linker preload mechanism this
// binary hooks into exists.

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "execfilter-preload: built without cgo, or not targeting linux")
	fmt.Fprintln(os.Stderr, "rebuild with CGO_ENABLED=1 GOOS=linux to produce a loadable shared object")
	os.Exit(1)
}
